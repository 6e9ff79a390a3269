package port

import (
	"context"

	"faxfhir/internal/domain"
)

// StructureOutput is what a model-backed structurer produces from raw OCR
// text: the FHIR bundle as an opaque tree, the model's own confidence
// self-report when it supplied one, and the model identifier used.
type StructureOutput struct {
	Bundle     map[string]any
	Confidence *domain.SelfReport
	ModelUsed  string
}

// Structurer converts OCR text into a FHIR bundle. Implementations wrap a
// single LLM provider; the fallback chain composes several of them.
type Structurer interface {
	Structure(ctx context.Context, text string) (*StructureOutput, error)
	Name() string
}
