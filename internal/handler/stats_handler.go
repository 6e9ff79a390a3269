package handler

import (
	"github.com/gin-gonic/gin"

	"faxfhir/internal/service"
)

// StatsHandler handles aggregate statistics endpoints.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Get handles GET /api/v1/stats
// @Summary Get processing statistics
// @Description Returns aggregate counts, confidence distribution, and success rates over all stored results
// @Tags stats
// @Produce json
// @Success 200 {object} APIResponse{data=domain.Stats} "Statistics"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /stats [get]
func (h *StatsHandler) Get(c *gin.Context) {
	if _, ok := extractClient(c); !ok {
		return
	}

	stats, err := h.statsService.GetStats(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, stats)
}
