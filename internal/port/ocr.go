package port

import "context"

// OCRClient kicks off asynchronous text detection on an uploaded document.
// inputURI points at the staged document, outputURI is the prefix the engine
// writes its result JSON under. The call returns once the operation has
// completed; reading the output is the caller's job.
type OCRClient interface {
	RequestTextDetection(ctx context.Context, inputURI, outputURI string) error
}
