package diagnose

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/helmsman-run/helmsman/models"
)

// AllHealthyMessage is returned when no failed containers exist.
const AllHealthyMessage = "All managed containers are healthy, no failures to report."

// FailureReport aggregates individual analyses by root cause and buckets them
// into priority tiers by confidence.
type FailureReport struct {
	Total          int                      `json:"total"`
	ByRootCause    map[string]int           `json:"byRootCause"`
	HighPriority   []models.FailureAnalysis `json:"highPriority,omitempty"`
	MediumPriority []models.FailureAnalysis `json:"mediumPriority,omitempty"`
	LowPriority    []models.FailureAnalysis `json:"lowPriority,omitempty"`
}

// Report classifies all failed containers and aggregates the results.
func (c *Classifier) Report(ctx context.Context) (FailureReport, error) {
	analyses, err := c.ClassifyAll(ctx)
	if err != nil {
		return FailureReport{}, err
	}
	return BuildReport(analyses), nil
}

// BuildReport groups analyses by root cause and confidence tier.
func BuildReport(analyses []models.FailureAnalysis) FailureReport {
	report := FailureReport{
		Total:       len(analyses),
		ByRootCause: make(map[string]int),
	}
	for _, a := range analyses {
		report.ByRootCause[a.RootCause]++
		switch {
		case a.Confidence > 0.8:
			report.HighPriority = append(report.HighPriority, a)
		case a.Confidence >= 0.6:
			report.MediumPriority = append(report.MediumPriority, a)
		default:
			report.LowPriority = append(report.LowPriority, a)
		}
	}
	return report
}

// Summary renders the report as human-readable text.
func (r FailureReport) Summary() string {
	if r.Total == 0 {
		return AllHealthyMessage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Failure report: %d failed container(s)\n", r.Total)

	causes := make([]string, 0, len(r.ByRootCause))
	for cause := range r.ByRootCause {
		causes = append(causes, cause)
	}
	sort.Strings(causes)
	for _, cause := range causes {
		fmt.Fprintf(&b, "  %s: %d\n", cause, r.ByRootCause[cause])
	}

	writeTier := func(label string, analyses []models.FailureAnalysis) {
		if len(analyses) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s priority:\n", label)
		for _, a := range analyses {
			fmt.Fprintf(&b, "  - [%s] %s (%.0f%%): %s\n", a.AppName, a.RootCause, a.Confidence*100, a.SuggestedFix)
		}
	}
	writeTier("High", r.HighPriority)
	writeTier("Medium", r.MediumPriority)
	writeTier("Low", r.LowPriority)

	return strings.TrimRight(b.String(), "\n")
}
