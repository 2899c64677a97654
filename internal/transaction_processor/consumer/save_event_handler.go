package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fingenie-expense-tracker/internal/domain/shared"
	"github.com/fingenie-expense-tracker/internal/platform/messaging/producers"
	"github.com/fingenie-expense-tracker/internal/transaction_processor/service"
)

// SaveEventHandler handles save requests consumed from Kafka
type SaveEventHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewSaveEventHandler creates a new handler. producer may be nil when no DLQ is configured.
func NewSaveEventHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *SaveEventHandler {
	return &SaveEventHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage decodes and processes one message. Returning nil commits the offset.
// Messages that can never succeed are dead-lettered; if that fails too the error is
// returned so the message is retried.
func (h *SaveEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var request shared.SaveRequest
	if err := json.Unmarshal(value, &request); err != nil {
		h.logger.Error("Failed to unmarshal save request from Kafka message", "error", err, "message_key", string(key))
		return h.deadLetter(ctx, key, value, producers.ReasonUnmarshalFailed, fmt.Errorf("failed to unmarshal message value: %w", err))
	}

	if request.TransactionID == "" {
		h.logger.Error("Save request has no transaction id", "message_key", string(key))
		return h.deadLetter(ctx, key, value, producers.ReasonMissingID, errors.New("save request has no transaction id"))
	}

	logger := h.logger.With("transaction_id", request.TransactionID)
	if request.CorrelationID != "" {
		logger = logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Received save request for processing", "amount", request.Amount, "category", request.Category)

	err := h.processingService.ProcessSaveRequest(ctx, &request)
	if errors.Is(err, service.ErrTaskPanicked) {
		return h.deadLetter(ctx, key, value, producers.ReasonSubmitFailed, err)
	}
	if err != nil {
		logger.Error("Failed to process save request", "error", err)
		return fmt.Errorf("processing save request %s failed: %w", request.TransactionID, err)
	}

	logger.Info("Successfully processed save request")
	return nil
}

func (h *SaveEventHandler) deadLetter(ctx context.Context, key, value []byte, reason string, cause error) error {
	if h.producer == nil {
		return cause
	}

	if err := h.producer.PublishToDLQ(ctx, string(key), value, reason); err != nil {
		h.logger.Error("Failed to publish message to DLQ",
			"dlq_error", err,
			"original_error", cause,
			"message_key", string(key),
		)
		return cause
	}

	h.logger.Info("Published unprocessable message to DLQ", "message_key", string(key), "reason", reason)
	return nil
}
