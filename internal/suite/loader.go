package suite

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bifrostlabs/bifrost-eval/internal/metrics"
	"github.com/bifrostlabs/bifrost-eval/internal/models"
	"github.com/bifrostlabs/bifrost-eval/internal/scoring"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk shape of a suite file. YAML and JSON are both
// accepted (JSON is a YAML subset).
type Document struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Tags        []string      `yaml:"tags,omitempty"`
	Scenarios   []ScenarioDoc `yaml:"scenarios"`
	Metrics     []MetricDoc   `yaml:"metrics,omitempty"`
	Grading     *GradingDoc   `yaml:"grading,omitempty"`
}

// ScenarioDoc is one scenario entry in a suite document.
type ScenarioDoc struct {
	Name           string         `yaml:"name"`
	Description    string         `yaml:"description,omitempty"`
	Input          map[string]any `yaml:"input,omitempty"`
	ExpectedOutput any            `yaml:"expected_output,omitempty"`
	ExpectedTools  []string       `yaml:"expected_tools,omitempty"`
	TimeoutMs      float64        `yaml:"timeout_ms,omitempty"`
	Tags           []string       `yaml:"tags,omitempty"`
	Metadata       map[string]any `yaml:"metadata,omitempty"`
}

// MetricDoc configures one metric. Config carries metric-specific parameters
// such as target_ms or budget_usd.
type MetricDoc struct {
	Type   string         `yaml:"type"`
	Weight float64        `yaml:"weight,omitempty"`
	Config map[string]any `yaml:"config,omitempty"`
}

// GradingDoc selects and configures the grading strategy.
type GradingDoc struct {
	Strategy     string             `yaml:"strategy,omitempty"`
	MinPassScore float64            `yaml:"min_pass_score,omitempty"`
	Thresholds   map[string]float64 `yaml:"thresholds,omitempty"`
}

// LoadResult is a fully-constructed evaluation setup: validated suite,
// configured metrics, and the grading scorer.
type LoadResult struct {
	Suite   *models.EvalSuite
	Metrics []metrics.Metric
	Scorer  *scoring.Scorer
}

// Load reads, schema-validates, and constructs a suite file. All structural
// problems are reported here, before any run starts.
func Load(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite file: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes is Load for in-memory documents.
func LoadBytes(data []byte) (*LoadResult, error) {
	if errs := ValidateBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("invalid suite document:\n  %s", strings.Join(errs, "\n  "))
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding suite document: %w", err)
	}

	scenarios := make([]models.Scenario, 0, len(doc.Scenarios))
	for _, sd := range doc.Scenarios {
		scenarios = append(scenarios, models.Scenario{
			Name:              sd.Name,
			Description:       sd.Description,
			InputData:         sd.Input,
			ExpectedOutput:    sd.ExpectedOutput,
			ExpectedToolCalls: sd.ExpectedTools,
			Tags:              sd.Tags,
			Timeout:           time.Duration(sd.TimeoutMs * float64(time.Millisecond)),
			Metadata:          sd.Metadata,
		})
	}

	evalSuite, err := models.NewEvalSuite(doc.Name, scenarios)
	if err != nil {
		return nil, fmt.Errorf("constructing suite: %w", err)
	}
	evalSuite.Description = doc.Description
	evalSuite.Tags = doc.Tags

	ms, err := buildMetrics(doc.Metrics)
	if err != nil {
		return nil, err
	}

	scorer, err := buildScorer(doc.Grading)
	if err != nil {
		return nil, err
	}

	return &LoadResult{Suite: evalSuite, Metrics: ms, Scorer: scorer}, nil
}

// buildMetrics constructs the configured metrics. A document without a
// metrics section gets the comparator-based defaults: accuracy and tool
// correctness.
func buildMetrics(docs []MetricDoc) ([]metrics.Metric, error) {
	if len(docs) == 0 {
		docs = []MetricDoc{
			{Type: string(metrics.KindAccuracy)},
			{Type: string(metrics.KindToolCorrectness)},
		}
	}

	ms := make([]metrics.Metric, 0, len(docs))
	for _, md := range docs {
		m, err := metrics.Create(metrics.Kind(md.Type), md.Weight, md.Config)
		if err != nil {
			return nil, fmt.Errorf("metric %q: %w", md.Type, err)
		}
		ms = append(ms, m)
	}
	return ms, nil
}

func buildScorer(doc *GradingDoc) (*scoring.Scorer, error) {
	if doc == nil {
		return scoring.NewScorer(nil), nil
	}

	switch doc.Strategy {
	case "", "weighted":
		grader, err := scoring.NewWeightedGrader(doc.MinPassScore)
		if err != nil {
			return nil, fmt.Errorf("grading: %w", err)
		}
		return scoring.NewScorer(grader), nil
	case "threshold":
		grader, err := scoring.NewThresholdGrader(doc.Thresholds)
		if err != nil {
			return nil, fmt.Errorf("grading: %w", err)
		}
		return scoring.NewScorer(grader), nil
	default:
		return nil, fmt.Errorf("grading: unknown strategy %q", doc.Strategy)
	}
}
