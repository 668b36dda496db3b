package wizard

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// SuiteSpec holds all fields collected during the interactive wizard.
type SuiteSpec struct {
	Name          string
	Description   string
	ScenarioName  string
	Prompt        string
	ExpectedTools []string
	Strategy      string
}

const suiteYAMLTemplate = `name: {{ .Name }}
{{- if .Description }}
description: {{ .Description }}
{{- end }}

scenarios:
  - name: {{ .ScenarioName }}
    input:
      prompt: "{{ .Prompt }}"
{{- if .ExpectedTools }}
    expected_tools:
{{- range .ExpectedTools }}
      - {{ . }}
{{- end }}
{{- end }}

metrics:
  - type: accuracy
    weight: 1.0
  - type: tool_correctness
    weight: 1.0

grading:
  strategy: {{ .Strategy }}
{{- if eq .Strategy "threshold" }}
  thresholds:
    accuracy: 0.6
    tool_correctness: 0.6
{{- end }}
`

// RunSuiteWizard runs an interactive huh form to collect suite metadata.
// If initialName is non-empty, it pre-populates the name field.
func RunSuiteWizard(in io.Reader, out io.Writer, initialName string) (*SuiteSpec, error) {
	var (
		name         = initialName
		description  string
		scenarioName string
		prompt       string
		toolsRaw     string
		strategy     string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Suite name").
				Description("A short name for your evaluation suite").
				Placeholder("my-suite").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Description("What does this suite evaluate?").
				Placeholder("Describe your suite").
				Value(&description),
			huh.NewInput().
				Title("First scenario name").
				Description("A name for the suite's first scenario").
				Placeholder("basic-request").
				Value(&scenarioName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("scenario name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Prompt").
				Description("The prompt sent to the pipeline for this scenario").
				Placeholder("What is 2 + 2?").
				Value(&prompt),
			huh.NewInput().
				Title("Expected tools").
				Description("Comma-separated tool names the pipeline should call, in order").
				Placeholder("search, calculator").
				Value(&toolsRaw),
			huh.NewSelect[string]().
				Title("Grading strategy").
				Options(
					huh.NewOption("weighted", "weighted"),
					huh.NewOption("threshold", "threshold"),
				).
				Value(&strategy),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	return &SuiteSpec{
		Name:          strings.TrimSpace(name),
		Description:   strings.TrimSpace(description),
		ScenarioName:  strings.TrimSpace(scenarioName),
		Prompt:        strings.TrimSpace(prompt),
		ExpectedTools: splitAndTrim(toolsRaw),
		Strategy:      strategy,
	}, nil
}

// GenerateSuiteYAML renders a suite file from the given spec.
func GenerateSuiteYAML(spec *SuiteSpec) (string, error) {
	tmpl, err := template.New("suiteyaml").Parse(suiteYAMLTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, spec); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
