package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidAPIKey       = errors.New("invalid api key")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")

	// ErrOCROutputMissing indicates OCR completed without leaving a
	// discoverable output artifact at the expected location.
	ErrOCROutputMissing = errors.New("ocr output not found")

	// ErrEmptyResponse indicates the structuring service returned no content.
	ErrEmptyResponse = errors.New("empty response from structuring service")

	// ErrInvalidFormat indicates the structuring service response contained
	// no extractable or parsable JSON, even after repair.
	ErrInvalidFormat = errors.New("response contains no parsable JSON")
)
