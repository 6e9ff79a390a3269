package structurer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"faxfhir/internal/domain"
	"faxfhir/internal/port"
)

var fencedBlockRE = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// ExtractJSON pulls the JSON payload out of a model reply. Fenced code
// blocks win; otherwise the span from the first opening brace to the last
// closing brace is taken.
func ExtractJSON(content string) (string, error) {
	if m := fencedBlockRE.FindStringSubmatch(content); m != nil {
		return m[1], nil
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: no JSON object in model reply", domain.ErrInvalidFormat)
	}
	return content[start : end+1], nil
}

// response is the contract the prompt asks the model to honor.
type response struct {
	FHIRBundle map[string]any     `json:"fhirBundle"`
	Confidence *domain.SelfReport `json:"confidence"`
}

// Decode extracts and parses a model reply into a StructureOutput. A strict
// parse is attempted first; on failure the payload is run through Repair and
// parsed again. The bundle is mandatory, the self-report may be absent.
func Decode(content, model string) (*port.StructureOutput, error) {
	raw, err := ExtractJSON(content)
	if err != nil {
		return nil, err
	}

	var parsed response
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		repaired := Repair(raw)
		if err2 := json.Unmarshal([]byte(repaired), &parsed); err2 != nil {
			return nil, fmt.Errorf("%w: parsing model JSON: %v", domain.ErrInvalidFormat, err)
		}
	}

	if parsed.FHIRBundle == nil {
		return nil, fmt.Errorf("%w: reply has no fhirBundle object", domain.ErrInvalidFormat)
	}

	return &port.StructureOutput{
		Bundle:     parsed.FHIRBundle,
		Confidence: parsed.Confidence,
		ModelUsed:  model,
	}, nil
}
