package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/fingenie-expense-tracker/internal/api_gateway/middleware"
	"github.com/fingenie-expense-tracker/internal/api_gateway/service"
)

// VoiceHandler serves transcript parsing
type VoiceHandler struct {
	parseService service.ParseService
	logger       *slog.Logger
}

func NewVoiceHandler(logger *slog.Logger, parseService service.ParseService) *VoiceHandler {
	return &VoiceHandler{
		parseService: parseService,
		logger:       logger,
	}
}

// Parse returns the raw parse of a transcript. The parse is not normalized here.
func (h *VoiceHandler) Parse(c *gin.Context) {
	var req TranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err, "correlation_id", middleware.GetCorrelationID(c))
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	raw, err := h.parseService.Parse(c.Request.Context(), req.Transcript)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyTranscript):
			RespondBadRequest(c, "Transcript is required")
		case errors.Is(err, service.ErrParseFailed):
			RespondParseFailed(c)
		default:
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, ParseResponse{Parsed: raw})
}
