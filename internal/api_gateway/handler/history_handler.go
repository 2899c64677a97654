package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fingenie-expense-tracker/internal/api_gateway/service"
	"github.com/fingenie-expense-tracker/internal/export"
)

// HistoryHandler serves filtered history and CSV export
type HistoryHandler struct {
	historyService service.HistoryService
	csv            *export.CSVWriter
	logger         *slog.Logger
}

func NewHistoryHandler(logger *slog.Logger, historyService service.HistoryService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		csv:            &export.CSVWriter{},
		logger:         logger,
	}
}

func (h *HistoryHandler) Query(c *gin.Context) {
	var req HistoryQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid history query", "error", err)
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	view, err := h.historyService.Query(c.Request.Context(), req.toParams())
	if err != nil {
		RespondInternalError(c)
		return
	}

	RespondOK(c, view)
}

// Export writes the filtered rows as CSV. An empty result is 404 so clients can tell the
// user there is nothing to export.
func (h *HistoryHandler) Export(c *gin.Context) {
	var req HistoryQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	view, err := h.historyService.Query(c.Request.Context(), req.toParams())
	if err != nil {
		RespondInternalError(c)
		return
	}
	if len(view.Rows) == 0 {
		RespondWithError(c, http.StatusNotFound, "NO_DATA", "No transactions to export")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.csv.Write(c.Writer, view.Rows); err != nil {
		h.logger.Error("Failed to write CSV export", "error", err)
	}
}
