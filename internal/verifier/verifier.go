// Package verifier judges completed runs: did the executed steps actually
// satisfy the user's request. The planner does the judging; this package
// owns the degrade path when the planner is unreachable.
package verifier

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/glowdesk/glow/internal/planner"
	"github.com/glowdesk/glow/pkg/models"
)

// Verifier checks execution results against the original goal.
type Verifier struct {
	planner planner.Planner
	logger  *zap.SugaredLogger
}

// New creates a Verifier over the given planner.
func New(p planner.Planner, logger *zap.SugaredLogger) *Verifier {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Verifier{planner: p, logger: logger}
}

// Check judges the results. It never returns an error: when the planner is
// unreachable the judgement falls back to counting step outcomes, so the
// user always gets a report.
func (v *Verifier) Check(ctx context.Context, goal string, results []models.ExecutionResult, expected string) *models.VerificationReport {
	report, err := v.planner.Verify(ctx, goal, results, expected)
	if err != nil {
		v.logger.Warnw("verification query failed, using step outcomes", "error", err)
		return fallbackReport(results)
	}
	if report.UserMessage == "" {
		report.UserMessage = fallbackReport(results).UserMessage
	}
	return report
}

// fallbackReport derives a verdict purely from step success counts.
func fallbackReport(results []models.ExecutionResult) *models.VerificationReport {
	var ok, failed int
	var issues []string
	for _, r := range results {
		if r.Success {
			ok++
			continue
		}
		failed++
		issues = append(issues, fmt.Sprintf("%s failed: %s", r.Tool, r.Error))
	}

	report := &models.VerificationReport{Issues: issues}
	switch {
	case failed == 0:
		report.Status = models.VerifySuccess
		report.UserMessage = "Done! All steps completed."
	case ok == 0:
		report.Status = models.VerifyFailed
		report.UserMessage = "I couldn't complete that: " + strings.Join(issues, "; ")
	default:
		report.Status = models.VerifyPartial
		report.UserMessage = fmt.Sprintf("Partially done: %d of %d steps succeeded.", ok, ok+failed)
	}
	return report
}

// Summary renders results as a short text block for logs and the chat view.
func Summary(results []models.ExecutionResult) string {
	if len(results) == 0 {
		return "No steps were executed."
	}
	var b strings.Builder
	for i, r := range results {
		status := "ok"
		detail := r.Result
		if !r.Success {
			status = "failed"
			detail = r.Error
		}
		fmt.Fprintf(&b, "%d. %s [%s] %s\n", i+1, r.Tool, status, detail)
	}
	return strings.TrimRight(b.String(), "\n")
}
