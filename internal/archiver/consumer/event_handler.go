// Package consumer adapts Kafka messages into archive writes.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/itonse/account/internal/archiver/service"
	"github.com/itonse/account/internal/domain/transaction"
	"github.com/itonse/account/internal/platform/messaging/producers"
)

// EventHandler handles transaction event messages from Kafka
type EventHandler struct {
	archiveService service.ArchiveService
	dlqProducer    producers.DeadLetterPublisher
	logger         *slog.Logger
}

// NewEventHandler creates a new handler. dlqProducer may be nil when the
// DLQ is disabled.
func NewEventHandler(
	logger *slog.Logger,
	archiveService service.ArchiveService,
	dlqProducer producers.DeadLetterPublisher,
) *EventHandler {
	return &EventHandler{
		archiveService: archiveService,
		dlqProducer:    dlqProducer,
		logger:         logger,
	}
}

// HandleMessage processes one Kafka message. Undecodable messages go to
// the DLQ when one is configured; archive failures propagate so the offset
// stays uncommitted and the message is redelivered.
func (h *EventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event transaction.Event
	if err := json.Unmarshal(value, &event); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal transaction event from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		if h.dlqProducer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.dlqProducer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
			} else {
				h.logger.Info("Published unprocessable message to DLQ", "message_key", string(key))
				// Message handled, commit offset
				return nil
			}
		}
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	if err := h.archiveService.ArchiveEvent(ctx, &event); err != nil {
		h.logger.Error("Failed to archive transaction event",
			"transaction_id", event.TransactionID,
			"account_number", event.AccountNumber,
			"error", err,
		)
		return err
	}

	return nil
}
