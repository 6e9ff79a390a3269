package handler

import (
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"faxfhir/internal/port"
	"faxfhir/internal/service"
)

// DocumentHandler handles document processing and retrieval endpoints.
type DocumentHandler struct {
	processor *service.Processor
	results   port.ResultRepository // nil when persistence is disabled
}

// NewDocumentHandler creates a new DocumentHandler. results may be nil.
func NewDocumentHandler(processor *service.Processor, results port.ResultRepository) *DocumentHandler {
	return &DocumentHandler{processor: processor, results: results}
}

// Process handles POST /api/v1/documents/process
// @Summary Process a fax document
// @Description Runs OCR, structuring, and confidence scoring on an uploaded document and returns the annotated FHIR bundle
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document to process (PDF, JPG, or PNG)"
// @Success 200 {object} APIResponse{data=domain.ProcessingResult} "Processing result"
// @Failure 400 {object} APIResponse "Missing file or unsupported type"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /documents/process [post]
func (h *DocumentHandler) Process(c *gin.Context) {
	client, ok := extractClient(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}

	localPath, cleanup, err := saveUpload(c, header)
	if err != nil {
		HandleError(c, err)
		return
	}
	defer cleanup()

	result := h.processor.ProcessDocument(c.Request.Context(), localPath, service.Options{
		StoreData: client.StoreData,
	})
	RespondOK(c, result)
}

// ProcessBatch handles POST /api/v1/documents/batch
// @Summary Process a batch of fax documents
// @Description Processes multiple uploaded documents concurrently and returns one result per document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Documents to process"
// @Param concurrency formData int false "Worker count (defaults to server configuration)"
// @Success 200 {object} APIResponse{data=[]domain.ProcessingResult} "Per-document results"
// @Failure 400 {object} APIResponse "No files provided"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /documents/batch [post]
func (h *DocumentHandler) ProcessBatch(c *gin.Context) {
	client, ok := extractClient(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "multipart form is required")
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "at least one file is required")
		return
	}

	concurrency := 0
	if raw := c.PostForm("concurrency"); raw != "" {
		concurrency, err = strconv.Atoi(raw)
		if err != nil || concurrency < 0 {
			RespondError(c, http.StatusBadRequest, "INVALID_CONCURRENCY", "concurrency must be a non-negative integer")
			return
		}
	}

	paths := make([]string, 0, len(headers))
	cleanups := make([]func(), 0, len(headers))
	defer func() {
		for _, fn := range cleanups {
			fn()
		}
	}()
	for _, header := range headers {
		localPath, cleanup, saveErr := saveUpload(c, header)
		if saveErr != nil {
			HandleError(c, saveErr)
			return
		}
		paths = append(paths, localPath)
		cleanups = append(cleanups, cleanup)
	}

	results := h.processor.ProcessBatch(c.Request.Context(), paths, concurrency, service.Options{
		StoreData: client.StoreData,
	})
	RespondOK(c, results)
}

// List handles GET /api/v1/documents
// @Summary List processing results
// @Description Lists stored processing results, newest first, with optional filters
// @Tags documents
// @Produce json
// @Param needs_review query bool false "Only results flagged (or not flagged) for review"
// @Param status query string false "Filter by processing status"
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Page offset"
// @Success 200 {object} APIResponse{data=[]domain.ProcessingResult} "Results"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	if h.results == nil {
		RespondError(c, http.StatusNotImplemented, "PERSISTENCE_DISABLED", "result persistence is not configured")
		return
	}

	filter := port.ResultFilter{Status: c.Query("status")}
	if raw := c.Query("needs_review"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_FILTER", "needs_review must be true or false")
			return
		}
		filter.NeedsReview = &v
	}
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			RespondError(c, http.StatusBadRequest, "INVALID_FILTER", "limit must be a non-negative integer")
			return
		}
		filter.Limit = v
	}
	if raw := c.Query("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			RespondError(c, http.StatusBadRequest, "INVALID_FILTER", "offset must be a non-negative integer")
			return
		}
		filter.Offset = v
	}

	results, err := h.results.List(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, results, PagMeta{Count: len(results), Offset: filter.Offset, Limit: filter.Limit})
}

// GetByID handles GET /api/v1/documents/:id
// @Summary Get a processing result
// @Tags documents
// @Produce json
// @Param id path string true "Result ID"
// @Success 200 {object} APIResponse{data=domain.ProcessingResult} "Result"
// @Failure 404 {object} APIResponse "Not found"
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	if h.results == nil {
		RespondError(c, http.StatusNotImplemented, "PERSISTENCE_DISABLED", "result persistence is not configured")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID")
		return
	}

	result, err := h.results.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// saveUpload writes a multipart file to a temporary directory so the
// processing pipeline can read it from disk. The returned cleanup removes
// the directory.
func saveUpload(c *gin.Context, header *multipart.FileHeader) (string, func(), error) {
	dir, err := os.MkdirTemp("", "faxfhir-upload-")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			log.Warn().Err(rmErr).Str("dir", dir).Msg("failed to remove upload temp dir")
		}
	}

	localPath := filepath.Join(dir, filepath.Base(header.Filename))
	if err := c.SaveUploadedFile(header, localPath); err != nil {
		cleanup()
		return "", nil, err
	}
	return localPath, cleanup, nil
}
