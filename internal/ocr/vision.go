// Package ocr extracts text from staged fax documents with Google Cloud
// Vision. Detection runs asynchronously against GCS URIs; the result JSON
// lands under the caller's output prefix.
package ocr

import (
	"context"
	"encoding/json"
	"fmt"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"faxfhir/internal/config"
	"faxfhir/internal/domain"
)

// VisionClient implements port.OCRClient against the Vision API.
type VisionClient struct {
	client *vision.ImageAnnotatorClient
}

// NewVisionClient creates an OCR client. When cfg names a credentials file
// it is used, otherwise application default credentials apply.
func NewVisionClient(ctx context.Context, cfg *config.GCSConfig) (*VisionClient, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating vision client: %w", err)
	}
	return &VisionClient{client: client}, nil
}

// RequestTextDetection runs DOCUMENT_TEXT_DETECTION on the document at
// inputURI and blocks until the operation finishes. Result JSON is written
// under outputURI, one output file per source page.
func (v *VisionClient) RequestTextDetection(ctx context.Context, inputURI, outputURI string) error {
	req := &visionpb.AsyncBatchAnnotateFilesRequest{
		Requests: []*visionpb.AsyncAnnotateFileRequest{
			{
				InputConfig: &visionpb.InputConfig{
					GcsSource: &visionpb.GcsSource{Uri: inputURI},
					MimeType:  "application/pdf",
				},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
				OutputConfig: &visionpb.OutputConfig{
					GcsDestination: &visionpb.GcsDestination{Uri: outputURI},
					BatchSize:      1,
				},
			},
		},
	}

	op, err := v.client.AsyncBatchAnnotateFiles(ctx, req)
	if err != nil {
		return fmt.Errorf("starting text detection: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for text detection: %w", err)
	}
	return nil
}

// Close closes the underlying Vision client.
func (v *VisionClient) Close() error {
	return v.client.Close()
}

// outputFile models the annotation JSON Vision writes to GCS.
type outputFile struct {
	Responses []struct {
		FullTextAnnotation *struct {
			Text string `json:"text"`
		} `json:"fullTextAnnotation"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// DecodeOutput parses one Vision output JSON file and concatenates the page
// texts it holds.
func DecodeOutput(data []byte) (string, error) {
	var out outputFile
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decoding ocr output: %w", err)
	}
	if len(out.Responses) == 0 {
		return "", domain.ErrOCROutputMissing
	}

	var text string
	for _, resp := range out.Responses {
		if resp.Error != nil {
			return "", fmt.Errorf("ocr page error: %s", resp.Error.Message)
		}
		if resp.FullTextAnnotation != nil {
			text += resp.FullTextAnnotation.Text
		}
	}
	return text, nil
}
