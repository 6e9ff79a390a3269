// Package confidence fuses the structuring model's self-reported confidence
// with the OCR quality heuristic and the missing critical-field count into
// one conservative verdict.
package confidence

import (
	"fmt"
	"strings"

	"faxfhir/internal/domain"
	"faxfhir/internal/quality"
)

// Review policy thresholds. missingFieldReviewLimit is deliberate policy from
// the source system: more than two absent critical fields forces review
// regardless of score.
const (
	reviewScoreThreshold    = 70
	qualityReviewThreshold  = 60
	missingFieldReviewLimit = 2

	defaultSelfScore = 50
)

// Decision is the routing outcome derived from a fused verdict. Comments are
// advisory: NeedsReview can be true with an empty comment list.
type Decision struct {
	NeedsReview bool     `json:"needsReview"`
	Comments    []string `json:"reviewComments"`
}

// Fuse combines the model self-report (may be nil), the OCR quality
// assessment, and the missing-field list into the authoritative verdict. The
// fused score is min(self-reported, quality) so it can never exceed either
// signal; a missing self-report defaults to 50 before the clamp and to a low
// overall level.
func Fuse(report *domain.SelfReport, qa quality.Assessment, missing []string) (domain.ConfidenceMetrics, Decision) {
	if report == nil {
		report = &domain.SelfReport{}
	}

	score := defaultSelfScore
	if report.ConfidenceScore != nil {
		score = *report.ConfidenceScore
	}
	if qa.Score < score {
		score = qa.Score
	}

	level := report.OverallConfidence
	if !level.Valid() {
		level = domain.ConfidenceLow
	}

	// Union keeps duplicates: both sources may flag the same field and the
	// reviewer sees each mention.
	flagged := append(append([]string{}, report.FlaggedFields...), missing...)
	issues := append(append([]string{}, report.ParsingIssues...), qa.Issues...)

	metrics := domain.ConfidenceMetrics{
		OverallConfidence:     level,
		ConfidenceScore:       score,
		FlaggedFields:         flagged,
		OCRQualityScore:       qa.Score,
		ParsingIssues:         issues,
		MissingCriticalFields: missing,
	}

	needsReview := score < reviewScoreThreshold ||
		level == domain.ConfidenceLow ||
		len(missing) > missingFieldReviewLimit ||
		qa.Score < qualityReviewThreshold

	var comments []string
	if qa.Score < qualityReviewThreshold {
		comments = append(comments, "Poor OCR quality - verify data.")
	}
	if len(missing) > 0 {
		comments = append(comments, fmt.Sprintf("Missing fields: %s", strings.Join(missing, ", ")))
	}
	if len(flagged) > 0 {
		comments = append(comments, fmt.Sprintf("Uncertain fields: %s", strings.Join(flagged, ", ")))
	}
	if report.Reasoning != "" {
		comments = append(comments, fmt.Sprintf("Model: %s", report.Reasoning))
	}

	return metrics, Decision{NeedsReview: needsReview, Comments: comments}
}
