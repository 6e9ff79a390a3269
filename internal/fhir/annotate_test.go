package fhir

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faxfhir/internal/domain"
)

func TestAnnotate_AddsTagAndExtensions(t *testing.T) {
	bundle := map[string]any{"resourceType": "Bundle", "type": "collection"}
	metrics := domain.ConfidenceMetrics{OverallConfidence: domain.ConfidenceHigh, ConfidenceScore: 92}

	out := Annotate(bundle, metrics, false)

	meta, ok := out["meta"].(map[string]any)
	require.True(t, ok)

	tags := meta["tag"].([]any)
	require.Len(t, tags, 1)
	tag := tags[0].(map[string]any)
	assert.Equal(t, TagSystem, tag["system"])
	assert.Equal(t, "high", tag["code"])
	assert.Equal(t, "Confidence: HIGH", tag["display"])

	exts := meta["extension"].([]any)
	require.Len(t, exts, 2)
	assert.Equal(t, map[string]any{"url": ScoreExtensionURL, "valueInteger": 92}, exts[0])
	assert.Equal(t, map[string]any{"url": ReviewExtensionURL, "valueBoolean": false}, exts[1])

	// Input untouched.
	_, hadMeta := bundle["meta"]
	assert.False(t, hadMeta)
}

func TestAnnotate_TwiceIsAdditive(t *testing.T) {
	bundle := map[string]any{"resourceType": "Bundle"}

	once := Annotate(bundle, domain.ConfidenceMetrics{OverallConfidence: domain.ConfidenceHigh, ConfidenceScore: 90}, false)
	twice := Annotate(once, domain.ConfidenceMetrics{OverallConfidence: domain.ConfidenceLow, ConfidenceScore: 10}, true)

	meta := twice["meta"].(map[string]any)
	tags := meta["tag"].([]any)
	require.Len(t, tags, 2)
	assert.Equal(t, "high", tags[0].(map[string]any)["code"])
	assert.Equal(t, "low", tags[1].(map[string]any)["code"])

	exts := meta["extension"].([]any)
	require.Len(t, exts, 4)
	assert.Equal(t, 90, exts[0].(map[string]any)["valueInteger"])
	assert.Equal(t, 10, exts[2].(map[string]any)["valueInteger"])
	assert.Equal(t, true, exts[3].(map[string]any)["valueBoolean"])
}

func TestAnnotate_PreservesExistingMeta(t *testing.T) {
	bundle := map[string]any{
		"resourceType": "Bundle",
		"meta": map[string]any{
			"versionId": "3",
			"tag":       []any{map[string]any{"system": "urn:custom", "code": "intake"}},
		},
	}

	out := Annotate(bundle, domain.ConfidenceMetrics{OverallConfidence: domain.ConfidenceMedium, ConfidenceScore: 70}, true)

	meta := out["meta"].(map[string]any)
	assert.Equal(t, "3", meta["versionId"])
	tags := meta["tag"].([]any)
	require.Len(t, tags, 2)
	assert.Equal(t, "intake", tags[0].(map[string]any)["code"])
	assert.Equal(t, "medium", tags[1].(map[string]any)["code"])
}

func TestErrorBundle_Shape(t *testing.T) {
	bundle := ErrorBundle(errors.New("boom"))

	assert.Equal(t, "Bundle", bundle["resourceType"])
	assert.Equal(t, "error-bundle", bundle["id"])

	entries := bundle["entry"].([]any)
	require.Len(t, entries, 1)
	resource := entries[0].(map[string]any)["resource"].(map[string]any)
	assert.Equal(t, "OperationOutcome", resource["resourceType"])
	issue := resource["issue"].([]any)[0].(map[string]any)
	assert.Equal(t, "error", issue["severity"])
	assert.Contains(t, issue["details"].(map[string]any)["text"], "boom")

	metrics := ErrorMetrics(errors.New("boom"))
	assert.Equal(t, domain.ConfidenceLow, metrics.OverallConfidence)
	assert.Equal(t, 0, metrics.ConfidenceScore)
	assert.Equal(t, []string{"all"}, metrics.FlaggedFields)
	assert.Equal(t, []string{"boom"}, metrics.ParsingIssues)
}

func TestErrorBundle_PassesValidation(t *testing.T) {
	raw, err := json.Marshal(ErrorBundle(errors.New("x")))
	require.NoError(t, err)
	assert.Empty(t, Validate(raw))
}

func TestValidate_FlagsMissingShape(t *testing.T) {
	assert.Contains(t, Validate(json.RawMessage(`{}`)), "Missing resourceType")
	assert.Contains(t, Validate(json.RawMessage(`{"resourceType":"Bundle"}`)),
		"Bundle is missing entries or entry is empty")
	assert.Empty(t, Validate(json.RawMessage(`{"resourceType":"Patient"}`)))
}
