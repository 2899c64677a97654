package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/fingenie-expense-tracker/internal/api_gateway/service"
)

type StatsHandler struct {
	statsService service.StatsService
	logger       *slog.Logger
}

func NewStatsHandler(logger *slog.Logger, statsService service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		logger:       logger,
	}
}

func (h *StatsHandler) Get(c *gin.Context) {
	dashboard, err := h.statsService.Dashboard(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to build dashboard", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, dashboard)
}
