package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"faxfhir/internal/port"
	"faxfhir/internal/report"
)

// ReportHandler handles spreadsheet export endpoints.
type ReportHandler struct {
	results port.ResultRepository
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(results port.ResultRepository) *ReportHandler {
	return &ReportHandler{results: results}
}

// ResultsXLSX handles GET /api/v1/reports/results.xlsx
// @Summary Export processing results as a spreadsheet
// @Description Streams stored processing results as an XLSX workbook, newest first
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param needs_review query bool false "Only results flagged (or not flagged) for review"
// @Param limit query int false "Maximum rows (default 50)"
// @Success 200 {file} binary "XLSX workbook"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /reports/results.xlsx [get]
func (h *ReportHandler) ResultsXLSX(c *gin.Context) {
	if h.results == nil {
		RespondError(c, http.StatusNotImplemented, "PERSISTENCE_DISABLED", "result persistence is not configured")
		return
	}

	var filter port.ResultFilter
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

	results, err := h.results.List(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("results-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := report.WriteXLSX(c.Writer, results); err != nil {
		HandleError(c, err)
		return
	}
}
