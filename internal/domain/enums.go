package domain

// FileType represents the allowed file types for processing.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// ConfidenceLevel is the coarse trust bucket attached to a converted bundle.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Valid reports whether the level is one of the three known buckets.
func (l ConfidenceLevel) Valid() bool {
	return l == ConfidenceHigh || l == ConfidenceMedium || l == ConfidenceLow
}

// ProcessingStatus tracks a document through the conversion pipeline.
// Failed is terminal and reachable from every step.
type ProcessingStatus string

const (
	StatusUploaded     ProcessingStatus = "uploaded"
	StatusOCRRequested ProcessingStatus = "ocr_requested"
	StatusOCRComplete  ProcessingStatus = "ocr_complete"
	StatusStructured   ProcessingStatus = "structured"
	StatusAnnotated    ProcessingStatus = "annotated"
	StatusFinalized    ProcessingStatus = "finalized"
	StatusFailed       ProcessingStatus = "failed"
)
