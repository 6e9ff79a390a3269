package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"faxfhir/internal/confidence"
	"faxfhir/internal/config"
	"faxfhir/internal/domain"
	"faxfhir/internal/fhir"
	"faxfhir/internal/ocr"
	"faxfhir/internal/port"
	"faxfhir/internal/quality"
)

// Options control per-call behavior of the processor.
type Options struct {
	// StoreData keeps the finalized bundle on disk (and in the archive when
	// configured) and leaves remote intermediates for audit. When false all
	// remote artifacts are deleted after processing.
	StoreData bool
}

// Processor drives a fax document through the conversion pipeline:
// upload, OCR, structuring, confidence fusion, annotation, finalization.
type Processor struct {
	storage    port.ObjectStorage
	archive    port.ObjectStorage // nil when archiving is disabled
	ocrClient  port.OCRClient
	structurer port.Structurer
	results    port.ResultRepository // nil when persistence is disabled
	notifier   port.EmailSender      // nil when email is disabled
	cfg        *config.Config
}

// NewProcessor creates a Processor. archive, results and notifier may be nil.
func NewProcessor(
	storage port.ObjectStorage,
	archive port.ObjectStorage,
	ocrClient port.OCRClient,
	structurer port.Structurer,
	results port.ResultRepository,
	notifier port.EmailSender,
	cfg *config.Config,
) *Processor {
	return &Processor{
		storage:    storage,
		archive:    archive,
		ocrClient:  ocrClient,
		structurer: structurer,
		results:    results,
		notifier:   notifier,
		cfg:        cfg,
	}
}

// ProcessDocument runs the full pipeline on one local document. It never
// returns an error: on failure past repair the result carries the error
// placeholder bundle, needs review, and the failure message.
func (p *Processor) ProcessDocument(ctx context.Context, localPath string, opts Options) *domain.ProcessingResult {
	start := time.Now()
	result := &domain.ProcessingResult{
		ID:        uuid.New(),
		Filename:  filepath.Base(localPath),
		CreatedAt: start.UTC(),
	}
	defer func() {
		result.ProcessingMs = time.Since(start).Milliseconds()
		p.persist(ctx, result)
	}()

	data, err := p.readDocument(localPath)
	if err != nil {
		return p.fail(result, "reading document", err)
	}

	incomingKey := fmt.Sprintf("incoming/%s/%s", result.ID, result.Filename)
	up, err := p.storage.Upload(ctx, port.UploadInput{
		Bucket:      p.cfg.GCS.Bucket,
		Key:         incomingKey,
		Body:        data,
		ContentType: contentTypeFor(result.Filename),
	})
	if err != nil {
		return p.fail(result, "uploading document", err)
	}
	result.Status = domain.StatusUploaded

	ocrPrefix := fmt.Sprintf("ocr-temp/%s/", result.ID)
	text, err := p.runOCR(ctx, up.URI, ocrPrefix, result)
	if err != nil {
		return p.fail(result, "running ocr", err)
	}
	result.Status = domain.StatusOCRComplete
	result.OCRTextLength = len(text)

	assessment := quality.Assess(text)
	missing := quality.MissingFields(text)

	structured, err := p.structurer.Structure(ctx, text)
	if err != nil {
		return p.fail(result, "structuring document", err)
	}
	result.Status = domain.StatusStructured

	metrics, decision := confidence.Fuse(structured.Confidence, assessment, missing)
	annotated := fhir.Annotate(structured.Bundle, metrics, decision.NeedsReview)
	result.Status = domain.StatusAnnotated

	bundleJSON, err := json.MarshalIndent(annotated, "", "  ")
	if err != nil {
		return p.fail(result, "encoding bundle", err)
	}
	result.FHIRBundle = bundleJSON
	result.Confidence = &metrics
	result.NeedsReview = decision.NeedsReview
	result.ReviewComments = decision.Comments

	if opts.StoreData {
		p.storeOutputs(ctx, result, bundleJSON)
	} else {
		p.cleanupArtifacts(ctx, incomingKey, ocrPrefix)
	}

	result.Status = domain.StatusFinalized
	result.Success = true

	if result.NeedsReview {
		p.notifyReview(ctx, result)
	}

	log.Info().
		Str("document_id", result.ID.String()).
		Str("filename", result.Filename).
		Str("model", structured.ModelUsed).
		Int("confidence_score", metrics.ConfidenceScore).
		Bool("needs_review", result.NeedsReview).
		Msg("document processed")

	return result
}

// ProcessBatch processes documents with exactly `concurrency` workers
// pulling from one shared queue. Each path is claimed by one worker;
// results are collected in completion order. A non-positive concurrency
// falls back to the configured default.
func (p *Processor) ProcessBatch(ctx context.Context, paths []string, concurrency int, opts Options) []*domain.ProcessingResult {
	if concurrency <= 0 {
		concurrency = p.cfg.Batch.Concurrency
	}
	if concurrency <= 0 {
		concurrency = 3
	}
	if concurrency > len(paths) {
		concurrency = len(paths)
	}

	queue := make(chan string)
	out := make(chan *domain.ProcessingResult)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range queue {
				out <- p.ProcessDocument(ctx, path, opts)
			}
		}()
	}

	go func() {
		for _, path := range paths {
			queue <- path
		}
		close(queue)
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]*domain.ProcessingResult, 0, len(paths))
	for r := range out {
		results = append(results, r)
	}
	return results
}

func (p *Processor) readDocument(localPath string) ([]byte, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(localPath)), ".")
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return nil, fmt.Errorf("%w: .%s", domain.ErrUnsupportedFileType, ext)
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		return nil, err
	}

	maxBytes := int64(p.cfg.Output.MaxFileSizeMB) * 1024 * 1024
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", domain.ErrFileTooLarge, len(data))
	}
	return data, nil
}

// runOCR requests async text detection and waits for the output artifact to
// appear under the prefix, polling at the configured interval rather than
// sleeping a fixed delay.
func (p *Processor) runOCR(ctx context.Context, inputURI, prefix string, result *domain.ProcessingResult) (string, error) {
	octx, cancel := context.WithTimeout(ctx, p.cfg.OCR.Timeout())
	defer cancel()

	result.Status = domain.StatusOCRRequested
	outputURI := fmt.Sprintf("gs://%s/%s", p.cfg.GCS.Bucket, prefix)
	if err := p.ocrClient.RequestTextDetection(octx, inputURI, outputURI); err != nil {
		return "", err
	}

	key, err := p.waitForOutput(octx, prefix)
	if err != nil {
		return "", err
	}

	data, err := p.storage.Download(octx, p.cfg.GCS.Bucket, key)
	if err != nil {
		return "", err
	}
	return ocr.DecodeOutput(data)
}

func (p *Processor) waitForOutput(ctx context.Context, prefix string) (string, error) {
	interval := p.cfg.OCR.PollInterval()
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		keys, err := p.storage.ListByPrefix(ctx, p.cfg.GCS.Bucket, prefix)
		if err != nil {
			return "", err
		}
		for _, key := range keys {
			if strings.HasSuffix(key, ".json") {
				return key, nil
			}
		}

		select {
		case <-ctx.Done():
			return "", domain.ErrOCROutputMissing
		case <-ticker.C:
		}
	}
}

// storeOutputs writes the finalized bundle to the local output directory and,
// when configured, to the archive bucket. Failures degrade the stored paths
// but never fail the document.
func (p *Processor) storeOutputs(ctx context.Context, result *domain.ProcessingResult, bundleJSON []byte) {
	outPath := filepath.Join(p.cfg.Output.Dir, result.Filename+"-fhir.json")
	if err := os.MkdirAll(p.cfg.Output.Dir, 0o755); err != nil {
		log.Warn().Err(err).Str("dir", p.cfg.Output.Dir).Msg("creating output directory failed")
	} else if err := os.WriteFile(outPath, bundleJSON, 0o644); err != nil {
		log.Warn().Err(err).Str("path", outPath).Msg("writing bundle output failed")
	} else {
		result.Files.FHIROutput = outPath
	}

	if p.archive == nil {
		return
	}
	archiveKey := fmt.Sprintf("bundles/%s/%s-fhir.json", result.ID, result.Filename)
	up, err := p.archive.Upload(ctx, port.UploadInput{
		Bucket:      p.cfg.Archive.Bucket,
		Key:         archiveKey,
		Body:        bundleJSON,
		ContentType: "application/json",
	})
	if err != nil {
		log.Warn().Err(err).Str("key", archiveKey).Msg("archiving bundle failed")
		return
	}
	result.Files.ArchiveURI = up.URI
}

// cleanupArtifacts deletes the uploaded document and OCR output. Best
// effort: failures are logged and swallowed.
func (p *Processor) cleanupArtifacts(ctx context.Context, incomingKey, ocrPrefix string) {
	bucket := p.cfg.GCS.Bucket
	if err := p.storage.Delete(ctx, bucket, incomingKey); err != nil {
		log.Warn().Err(err).Str("key", incomingKey).Msg("deleting uploaded document failed")
	}

	keys, err := p.storage.ListByPrefix(ctx, bucket, ocrPrefix)
	if err != nil {
		log.Warn().Err(err).Str("prefix", ocrPrefix).Msg("listing ocr artifacts failed")
		return
	}
	for _, key := range keys {
		if err := p.storage.Delete(ctx, bucket, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("deleting ocr artifact failed")
		}
	}
}

func (p *Processor) notifyReview(ctx context.Context, result *domain.ProcessingResult) {
	if p.notifier == nil || p.cfg.Email.ReviewRecipient == "" {
		return
	}
	score := 0
	if result.Confidence != nil {
		score = result.Confidence.ConfidenceScore
	}
	err := p.notifier.SendReviewNotification(ctx, p.cfg.Email.ReviewRecipient, port.ReviewNotification{
		DocumentID: result.ID.String(),
		Filename:   result.Filename,
		Score:      score,
		Comments:   result.ReviewComments,
	})
	if err != nil {
		log.Warn().Err(err).Str("document_id", result.ID.String()).Msg("sending review notification failed")
	}
}

func (p *Processor) persist(ctx context.Context, result *domain.ProcessingResult) {
	if p.results == nil {
		return
	}
	if err := p.results.Create(ctx, result); err != nil {
		log.Warn().Err(err).Str("document_id", result.ID.String()).Msg("persisting result failed")
	}
}

// fail marks the result failed and substitutes the error placeholder
// bundle. Intermediate remote artifacts are left in place for diagnosis.
func (p *Processor) fail(result *domain.ProcessingResult, step string, err error) *domain.ProcessingResult {
	log.Error().Err(err).
		Str("document_id", result.ID.String()).
		Str("filename", result.Filename).
		Str("step", step).
		Msg("document processing failed")

	cause := fmt.Errorf("%s: %w", step, err)
	bundleJSON, mErr := json.MarshalIndent(fhir.ErrorBundle(cause), "", "  ")
	if mErr == nil {
		result.FHIRBundle = bundleJSON
	}

	metrics := fhir.ErrorMetrics(cause)
	result.Confidence = &metrics
	result.Status = domain.StatusFailed
	result.Success = false
	result.NeedsReview = true
	result.ReviewComments = []string{fhir.FailureComment}
	result.Errors = append(result.Errors, cause.Error())
	return result
}

func contentTypeFor(filename string) string {
	switch strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".") {
	case "pdf":
		return "application/pdf"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
