package reporting

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bifrostlabs/bifrost-eval/internal/models"
	"github.com/mattn/go-runewidth"
)

// WriteSuiteReport prints a human-readable summary of one suite run.
func WriteSuiteReport(w io.Writer, result *models.SuiteResult) {
	fmt.Fprintf(w, "Suite: %s\n", result.SuiteName)
	fmt.Fprintf(w, "Scenarios: %d total, %d passed, %d failed\n",
		len(result.ScenarioResults), result.PassedCount(), result.FailedCount())
	fmt.Fprintf(w, "Pass rate: %.1f%%  Mean score: %.3f  Grade: %s\n",
		result.PassRate()*100, result.MeanScore(), result.Grade())
	if result.TotalCost.TotalUSD > 0 {
		fmt.Fprintf(w, "Total cost: $%.4f\n", result.TotalCost.TotalUSD)
	}
	fmt.Fprintf(w, "Total latency: %.0fms (p50 %.0fms, p95 %.0fms)\n\n",
		result.TotalLatency.TotalMs, result.TotalLatency.P50Ms, result.TotalLatency.P95Ms)

	// Column widths track the widest scenario and metric list.
	nameWidth := len("Scenario")
	for i := range result.ScenarioResults {
		if sw := runewidth.StringWidth(result.ScenarioResults[i].ScenarioName); sw > nameWidth {
			nameWidth = sw
		}
	}

	fmt.Fprintf(w, "%s  %-6s  %-7s  %s\n", padRight("Scenario", nameWidth), "Score", "Status", "Detail")
	for i := range result.ScenarioResults {
		sr := &result.ScenarioResults[i]
		status := "pass"
		if !sr.Passed {
			status = "FAIL"
		}
		detail := scoreSummary(sr)
		if sr.Error != "" {
			detail = sr.Error
		}
		fmt.Fprintf(w, "%s  %.3f   %-7s  %s\n",
			padRight(sr.ScenarioName, nameWidth), sr.WeightedScore(), status, detail)
	}
}

// WriteComparisonReport prints a ranked summary of a comparison run.
func WriteComparisonReport(w io.Writer, result *models.ComparisonResult) {
	fmt.Fprintf(w, "Comparison on suite: %s\n\n", result.SuiteName)

	ids := make([]string, 0, len(result.Summary))
	for id := range result.Summary {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := result.Summary[ids[i]], result.Summary[ids[j]]
		if a.MeanScore != b.MeanScore {
			return a.MeanScore > b.MeanScore
		}
		return ids[i] < ids[j]
	})

	idWidth := len("Executor")
	for _, id := range ids {
		if sw := runewidth.StringWidth(id); sw > idWidth {
			idWidth = sw
		}
	}

	fmt.Fprintf(w, "%s  %-7s  %-9s  %-10s  %-12s  %s\n",
		padRight("Executor", idWidth), "Score", "PassRate", "Cost($)", "95% CI", "Grade")
	for _, id := range ids {
		s := result.Summary[id]
		fmt.Fprintf(w, "%s  %.3f    %.1f%%      %.4f      [%.2f, %.2f]  %s\n",
			padRight(id, idWidth), s.MeanScore, s.PassRate*100, s.TotalCostUSD,
			s.ScoreCILower, s.ScoreCIUpper, s.Grade)
	}

	for id, msg := range result.Failed {
		fmt.Fprintf(w, "%s: run failed, excluded from ranking (%s)\n", id, msg)
	}

	fmt.Fprintln(w)
	if result.Tie {
		fmt.Fprintf(w, "Result: tie between %s\n", strings.Join(result.TiedWith, ", "))
	} else if result.Winner != "" {
		fmt.Fprintf(w, "Winner: %s (decided by %s)\n", result.Winner, result.Criterion)
	} else {
		fmt.Fprintf(w, "No winner: no executor completed its run\n")
	}
}

// scoreSummary condenses a result's scores into "name=value" pairs.
func scoreSummary(sr *models.ScenarioResult) string {
	parts := make([]string, 0, len(sr.Scores))
	for _, s := range sr.Scores {
		parts = append(parts, fmt.Sprintf("%s=%.2f", s.Name, s.Value))
	}
	return strings.Join(parts, " ")
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
