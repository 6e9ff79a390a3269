package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SelfReport is the structuring model's own confidence assessment, embedded
// in its JSON response. Any field may be absent; the fusion engine supplies
// conservative defaults.
type SelfReport struct {
	OverallConfidence ConfidenceLevel `json:"overallConfidence"`
	ConfidenceScore   *int            `json:"confidenceScore"`
	FlaggedFields     []string        `json:"flaggedFields"`
	ParsingIssues     []string        `json:"parsingIssues"`
	Reasoning         string          `json:"reasoning"`
}

// ConfidenceMetrics is the fused, authoritative confidence verdict for one
// document. The fused score never exceeds either contributing signal.
type ConfidenceMetrics struct {
	OverallConfidence     ConfidenceLevel `json:"overallConfidence"`
	ConfidenceScore       int             `json:"confidenceScore"`
	FlaggedFields         []string        `json:"flaggedFields"`
	OCRQualityScore       int             `json:"ocrQualityScore"`
	ParsingIssues         []string        `json:"parsingIssues"`
	MissingCriticalFields []string        `json:"missingCriticalFields"`
}

// OutputFiles records where finalized artifacts were written, when persistence
// is enabled for the caller.
type OutputFiles struct {
	FHIROutput string `json:"fhirOutput,omitempty"`
	ArchiveURI string `json:"archiveUri,omitempty"`
}

// ProcessingResult is the per-document outcome of the conversion pipeline.
// It is always well-formed: on total failure the bundle is the error
// placeholder and NeedsReview is true.
type ProcessingResult struct {
	ID             uuid.UUID          `json:"id"`
	Filename       string             `json:"filename"`
	Status         ProcessingStatus   `json:"status"`
	Success        bool               `json:"success"`
	FHIRBundle     json.RawMessage    `json:"fhirBundle,omitempty"`
	Confidence     *ConfidenceMetrics `json:"confidence,omitempty"`
	NeedsReview    bool               `json:"needsReview"`
	ReviewComments []string           `json:"reviewComments"`
	ProcessingMs   int64              `json:"processingTimeMs"`
	OCRTextLength  int                `json:"ocrTextLength"`
	Files          OutputFiles        `json:"files"`
	Errors         []string           `json:"errors,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// APIClient identifies an authenticated integration partner. StoreData
// controls whether finalized output and intermediate artifacts are retained
// for that caller.
type APIClient struct {
	Name      string `json:"name"`
	StoreData bool   `json:"storeData"`
}

// Stats holds aggregate processing counters.
type Stats struct {
	TotalProcessed   int     `db:"total_processed" json:"totalProcessed"`
	HighConfidence   int     `db:"high_confidence" json:"highConfidence"`
	MediumConfidence int     `db:"medium_confidence" json:"mediumConfidence"`
	LowConfidence    int     `db:"low_confidence" json:"lowConfidence"`
	NeedsReview      int     `db:"needs_review" json:"needsReview"`
	Succeeded        int     `db:"succeeded" json:"-"`
	AvgProcessingMs  float64 `db:"avg_processing_ms" json:"avgProcessingTime"`
	SuccessRate      float64 `db:"-" json:"successRate"`
	ErrorRate        float64 `db:"-" json:"errorRate"`
}
