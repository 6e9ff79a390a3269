// Package fhir handles the FHIR bundle shell: confidence annotation, the
// error placeholder produced on total conversion failure, and minimal shape
// validation. Bundles are opaque key/value trees; only the shapes this
// package touches are assumed.
package fhir

import (
	"strings"

	"faxfhir/internal/domain"
)

const (
	// TagSystem is the code system used for the confidence-level meta tag.
	TagSystem = "http://terminology.hl7.org/CodeSystem/v3-ObservationValue"

	// ScoreExtensionURL carries the fused numeric confidence score.
	ScoreExtensionURL = "http://example.com/fhir/StructureDefinition/confidence-score"

	// ReviewExtensionURL carries the review-required flag.
	ReviewExtensionURL = "http://example.com/fhir/StructureDefinition/needs-review"
)

// Annotate stamps the bundle's metadata with a confidence-level tag and two
// extensions (numeric score, review flag). Annotation is additive: existing
// tags and extensions are preserved and the new entries appended. The input
// map is not mutated.
func Annotate(bundle map[string]any, metrics domain.ConfidenceMetrics, needsReview bool) map[string]any {
	out := make(map[string]any, len(bundle)+1)
	for k, v := range bundle {
		out[k] = v
	}

	meta := make(map[string]any)
	if prev, ok := out["meta"].(map[string]any); ok {
		for k, v := range prev {
			meta[k] = v
		}
	}

	var tags []any
	if prev, ok := meta["tag"].([]any); ok {
		tags = append(tags, prev...)
	}
	tags = append(tags, map[string]any{
		"system":  TagSystem,
		"code":    string(metrics.OverallConfidence),
		"display": "Confidence: " + strings.ToUpper(string(metrics.OverallConfidence)),
	})
	meta["tag"] = tags

	var exts []any
	if prev, ok := meta["extension"].([]any); ok {
		exts = append(exts, prev...)
	}
	exts = append(exts,
		map[string]any{"url": ScoreExtensionURL, "valueInteger": metrics.ConfidenceScore},
		map[string]any{"url": ReviewExtensionURL, "valueBoolean": needsReview},
	)
	meta["extension"] = exts

	out["meta"] = meta
	return out
}
