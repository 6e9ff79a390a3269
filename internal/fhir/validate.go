package fhir

import "encoding/json"

// Validate runs the minimal shape checks on a serialized bundle and returns
// the list of problems found. It deliberately does not attempt full FHIR
// schema validation.
func Validate(raw json.RawMessage) []string {
	var bundle map[string]any
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return []string{"not a JSON object: " + err.Error()}
	}

	var issues []string

	rt, _ := bundle["resourceType"].(string)
	if rt == "" {
		issues = append(issues, "Missing resourceType")
	}

	if rt == "Bundle" {
		entries, ok := bundle["entry"].([]any)
		if !ok || len(entries) == 0 {
			issues = append(issues, "Bundle is missing entries or entry is empty")
		}
	}

	return issues
}
