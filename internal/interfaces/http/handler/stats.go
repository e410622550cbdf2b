package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/application/report"
)

// StatsService builds the admin dashboard
type StatsService interface {
	Dashboard(ctx context.Context) (*report.Dashboard, error)
}

// StatsHandler serves admin statistics
type StatsHandler struct {
	BaseHandler
	stats StatsService
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(base BaseHandler, stats StatsService) *StatsHandler {
	return &StatsHandler{BaseHandler: base, stats: stats}
}

// Dashboard godoc
// @Summary      Admin dashboard figures
// @Description  Totals, status breakdowns, best sellers, recent orders and 12 months of paid revenue.
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse[report.Dashboard]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/stats [get]
func (h *StatsHandler) Dashboard(c *gin.Context) {
	d, err := h.stats.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}
