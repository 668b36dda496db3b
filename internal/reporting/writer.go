package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// WriteResultFile serializes v as indented JSON to path. Paths ending in
// ".gz" are gzip-compressed on the way out.
func WriteResultFile(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating result file: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding result JSON: %w", err)
	}

	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("flushing gzip stream: %w", err)
		}
	}
	return nil
}

// ReadResultFile loads a JSON result written by WriteResultFile into v,
// transparently decompressing ".gz" files.
func ReadResultFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening result file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("opening gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decoding result JSON: %w", err)
	}
	return nil
}
