package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/bifrostlabs/bifrost-eval/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one suite run.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one scenario.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
}

// JUnitFailure represents a scenario that ran but did not pass grading.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitError represents an infrastructure error or timeout.
type JUnitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit converts a SuiteResult to JUnit XML format.
func ConvertToJUnit(result *models.SuiteResult) *JUnitTestSuites {
	durationSec := result.TotalLatency.TotalMs / 1000.0

	failures := 0
	errors := 0
	suite := JUnitTestSuite{
		Name:      result.SuiteName,
		Tests:     len(result.ScenarioResults),
		Time:      durationSec,
		Timestamp: result.RunAt.Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "mean_score", Value: fmt.Sprintf("%.4f", result.MeanScore())},
			{Name: "pass_rate", Value: fmt.Sprintf("%.4f", result.PassRate())},
			{Name: "grade", Value: string(result.Grade())},
			{Name: "total_cost_usd", Value: fmt.Sprintf("%.6f", result.TotalCost.TotalUSD)},
		},
	}

	for i := range result.ScenarioResults {
		tc := convertScenarioResult(result.SuiteName, &result.ScenarioResults[i])
		if tc.Error != nil {
			errors++
		} else if tc.Failure != nil {
			failures++
		}
		suite.TestCases = append(suite.TestCases, tc)
	}

	suite.Failures = failures
	suite.Errors = errors

	return &JUnitTestSuites{
		Tests:      len(result.ScenarioResults),
		Failures:   failures,
		Errors:     errors,
		Time:       durationSec,
		TestSuites: []JUnitTestSuite{suite},
	}
}

func convertScenarioResult(suiteName string, sr *models.ScenarioResult) JUnitTestCase {
	var durationSec float64
	if sr.Trace != nil {
		durationSec = sr.Trace.Latency.TotalMs / 1000.0
	}

	tc := JUnitTestCase{
		Name:      sr.ScenarioName,
		Classname: suiteName,
		Time:      durationSec,
	}

	// Timeouts and infrastructure errors leave no trace to grade; a trace
	// that ran but reported a pipeline error is still a graded failure.
	switch {
	case sr.Error != "" && sr.Trace == nil:
		tc.Error = &JUnitError{
			Message: sr.Error,
			Type:    "ExecutionError",
		}
	case !sr.Passed:
		body := formatScoreDetails(sr.Scores)
		if sr.Error != "" {
			body += "pipeline error: " + sr.Error + "\n"
		}
		tc.Failure = &JUnitFailure{
			Message: fmt.Sprintf("%s: score=%.2f", sr.ScenarioName, sr.WeightedScore()),
			Type:    "GradingFailure",
			Body:    body,
		}
	}

	return tc
}

func formatScoreDetails(scores []models.Score) string {
	var result string
	for _, s := range scores {
		result += fmt.Sprintf("%s: score=%.2f weight=%.2f", s.Name, s.Value, s.Weight)
		if s.Details != "" {
			result += " (" + s.Details + ")"
		}
		result += "\n"
	}
	return result
}

// WriteJUnitXML writes JUnit XML to the specified file path.
func WriteJUnitXML(result *models.SuiteResult, path string) error {
	suites := ConvertToJUnit(result)

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	output := append([]byte(xml.Header), data...)
	return os.WriteFile(path, output, 0644)
}
