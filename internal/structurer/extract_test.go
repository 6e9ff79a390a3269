package structurer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faxfhir/internal/domain"
)

func TestExtractJSON_FencedBlock(t *testing.T) {
	content := "Here is the result:\n```json\n{\"fhirBundle\": {}}\n```\nDone."
	raw, err := ExtractJSON(content)
	require.NoError(t, err)
	assert.Equal(t, `{"fhirBundle": {}}`, raw)
}

func TestExtractJSON_FencedBlockNoLanguageTag(t *testing.T) {
	content := "```\n{\"a\": 1}\n```"
	raw, err := ExtractJSON(content)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, raw)
}

func TestExtractJSON_BraceSpan(t *testing.T) {
	content := `The bundle follows. {"fhirBundle": {"resourceType": "Bundle"}} Hope that helps!`
	raw, err := ExtractJSON(content)
	require.NoError(t, err)
	assert.Equal(t, `{"fhirBundle": {"resourceType": "Bundle"}}`, raw)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON("I could not read the document, sorry.")
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
}

func TestDecode_FullResponse(t *testing.T) {
	reply := "```json\n" + `{
  "fhirBundle": {"resourceType": "Bundle", "type": "collection"},
  "confidence": {
    "overallConfidence": "medium",
    "confidenceScore": 65,
    "flaggedFields": ["patient.birthDate"],
    "parsingIssues": ["DOB partially illegible"],
    "reasoning": "Handwriting unclear in places"
  }
}` + "\n```"

	out, err := Decode(reply, "claude-3-5-haiku-20241022")
	require.NoError(t, err)
	assert.Equal(t, "Bundle", out.Bundle["resourceType"])
	assert.Equal(t, "claude-3-5-haiku-20241022", out.ModelUsed)
	require.NotNil(t, out.Confidence)
	assert.Equal(t, domain.ConfidenceMedium, out.Confidence.OverallConfidence)
	require.NotNil(t, out.Confidence.ConfidenceScore)
	assert.Equal(t, 65, *out.Confidence.ConfidenceScore)
	assert.Equal(t, []string{"patient.birthDate"}, out.Confidence.FlaggedFields)
}

func TestDecode_MissingConfidence(t *testing.T) {
	out, err := Decode(`{"fhirBundle": {"resourceType": "Bundle"}}`, "gpt-4o")
	require.NoError(t, err)
	assert.Nil(t, out.Confidence)
	assert.Equal(t, "Bundle", out.Bundle["resourceType"])
}

func TestDecode_RepairsTrailingComma(t *testing.T) {
	out, err := Decode(`{"fhirBundle": {"resourceType": "Bundle",},}`, "gemini-2.0-flash")
	require.NoError(t, err)
	assert.Equal(t, "Bundle", out.Bundle["resourceType"])
}

func TestDecode_NoBundle(t *testing.T) {
	_, err := Decode(`{"confidence": {"overallConfidence": "low"}}`, "m")
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
}

func TestDecode_UnrepairableGarbage(t *testing.T) {
	_, err := Decode(`{"fhirBundle": {{{}`, "m")
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
}

func TestRepair(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"trailing comma object", `{"a": 1,}`, `{"a": 1}`},
		{"trailing comma array", `{"a": [1, 2,]}`, `{"a": [1, 2]}`},
		{"unquoted keys", `{name: "Bob", age: 3}`, `{"name": "Bob", "age": 3}`},
		{"single quotes", `{'a': 'b'}`, `{"a": "b"}`},
		{"literal newline in string", "{\"a\": \"x\ny\"}", `{"a": "x\ny"}`},
		{"literal tab in string", "{\"a\": \"x\ty\"}", `{"a": "x\ty"}`},
		{"bare literals untouched", `{"ok": true, "n": null}`, `{"ok": true, "n": null}`},
		{"valid passes through", `{"a": {"b": [1, "two"]}}`, `{"a": {"b": [1, "two"]}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Repair(tc.in)
			assert.Equal(t, tc.want, got)
			assert.True(t, json.Valid([]byte(got)))
		})
	}
}

func TestBuildReferralPrompt_EmbedsText(t *testing.T) {
	prompt := BuildReferralPrompt("PATIENT NAME: Jane Roe")
	assert.Contains(t, prompt, "PATIENT NAME: Jane Roe")
	assert.Contains(t, prompt, "fhirBundle")
	assert.Contains(t, prompt, "overallConfidence")
}
