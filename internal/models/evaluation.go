package models

import (
	"errors"
	"fmt"
	"time"
)

// GradeLevel is the discrete grade assigned to a scenario or suite outcome.
type GradeLevel string

const (
	GradeExcellent  GradeLevel = "excellent"
	GradeGood       GradeLevel = "good"
	GradeAcceptable GradeLevel = "acceptable"
	GradePoor       GradeLevel = "poor"
	GradeFail       GradeLevel = "fail"
)

// Grade band lower bounds. Bands are contiguous and cover [0, 1]; each bound
// is inclusive.
const (
	ExcellentBound  = 0.90
	GoodBound       = 0.75
	AcceptableBound = 0.60
	PoorBound       = 0.40
)

// GradeForScore maps a score in [0, 1] to its grade band.
func GradeForScore(score float64) GradeLevel {
	switch {
	case score >= ExcellentBound:
		return GradeExcellent
	case score >= GoodBound:
		return GradeGood
	case score >= AcceptableBound:
		return GradeAcceptable
	case score >= PoorBound:
		return GradePoor
	default:
		return GradeFail
	}
}

// ErrDuplicateScenario is returned by NewEvalSuite when two scenarios share a name.
var ErrDuplicateScenario = errors.New("duplicate scenario name")

// DefaultScenarioTimeout applies when a scenario does not declare its own.
const DefaultScenarioTimeout = 30 * time.Second

// Scenario is one test case: the input handed verbatim to the executor, plus
// the expectations metrics grade against. Scenarios are authored before a run
// begins and never mutated afterwards.
type Scenario struct {
	Name              string         `json:"name"`
	Description       string         `json:"description,omitempty"`
	InputData         map[string]any `json:"input_data,omitempty"`
	ExpectedOutput    any            `json:"expected_output,omitempty"`
	ExpectedToolCalls []string       `json:"expected_tool_calls,omitempty"`
	Tags              []string       `json:"tags,omitempty"`
	Timeout           time.Duration  `json:"timeout"`
	Metadata          map[string]any `json:"metadata,omitempty"`
}

// EvalSuite is an ordered collection of uniquely-named scenarios.
// Construct via NewEvalSuite so structural problems surface before a run starts.
type EvalSuite struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Scenarios   []Scenario `json:"scenarios"`
	Tags        []string   `json:"tags,omitempty"`
}

// NewEvalSuite validates scenario names and fills in default timeouts.
func NewEvalSuite(name string, scenarios []Scenario) (*EvalSuite, error) {
	if name == "" {
		return nil, fmt.Errorf("suite name must not be empty")
	}

	seen := make(map[string]bool, len(scenarios))
	for i := range scenarios {
		s := &scenarios[i]
		if s.Name == "" {
			return nil, fmt.Errorf("scenario %d has no name", i)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateScenario, s.Name)
		}
		seen[s.Name] = true

		if s.Timeout <= 0 {
			s.Timeout = DefaultScenarioTimeout
		}
	}

	return &EvalSuite{Name: name, Scenarios: scenarios}, nil
}
