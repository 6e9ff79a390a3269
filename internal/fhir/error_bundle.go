package fhir

import (
	"time"

	"faxfhir/internal/domain"
)

// FailureComment is the single review comment attached when conversion could
// not complete at all.
const FailureComment = "Complete failure - manual entry required"

// ErrorBundle builds the deterministic placeholder bundle substituted when
// the pipeline fails past repair: a minimal Bundle shell with one
// OperationOutcome entry describing the failure. This is the worst-case
// guarantee; callers never see an error escape the pipeline, only this
// degenerate result.
func ErrorBundle(cause error) map[string]any {
	return map[string]any{
		"resourceType": "Bundle",
		"id":           "error-bundle",
		"type":         "collection",
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"meta": map[string]any{
			"tag": []any{
				map[string]any{
					"system":  TagSystem,
					"code":    string(domain.ConfidenceLow),
					"display": "Confidence: LOW",
				},
			},
		},
		"entry": []any{
			map[string]any{
				"resource": map[string]any{
					"resourceType": "OperationOutcome",
					"id":           "mapping-error",
					"issue": []any{
						map[string]any{
							"severity": "error",
							"code":     "processing",
							"details": map[string]any{
								"text": "Failed to map OCR text to FHIR: " + cause.Error(),
							},
						},
					},
				},
			},
		},
	}
}

// ErrorMetrics is the confidence verdict paired with ErrorBundle: everything
// flagged, score zero.
func ErrorMetrics(cause error) domain.ConfidenceMetrics {
	return domain.ConfidenceMetrics{
		OverallConfidence:     domain.ConfidenceLow,
		ConfidenceScore:       0,
		FlaggedFields:         []string{"all"},
		OCRQualityScore:       0,
		ParsingIssues:         []string{cause.Error()},
		MissingCriticalFields: []string{"all"},
	}
}
