package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/events"
)

// ScheduleEventHandler turns card_rescheduled events into PersistScheduleTasks.
type ScheduleEventHandler struct {
	submitter Submitter
	writer    ScheduleWriter
	logger    *slog.Logger
}

// NewScheduleEventHandler creates a handler that submits persist tasks to submitter.
func NewScheduleEventHandler(
	submitter Submitter,
	writer ScheduleWriter,
	logger *slog.Logger,
) *ScheduleEventHandler {
	if submitter == nil {
		panic("submitter cannot be nil")
	}
	if writer == nil {
		panic("schedule writer cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleEventHandler{
		submitter: submitter,
		writer:    writer,
		logger:    logger.With("component", "schedule_event_handler"),
	}
}

// HandleEvent ignores other event types. A full queue drops the write with a
// warning and is not reported as an error.
func (h *ScheduleEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeCardRescheduled {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	var update domain.ScheduleUpdate
	if err := event.UnmarshalPayload(&update); err != nil {
		h.logger.Error("failed to unmarshal payload", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	task, err := NewPersistScheduleTask(update, h.writer, h.logger)
	if err != nil {
		h.logger.Error("failed to create task",
			"error", err,
			"card_id", update.CardID,
			"event_id", event.ID)
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.submitter.Submit(ctx, task); err != nil {
		if errors.Is(err, ErrQueueFull) {
			h.logger.Warn("dropping schedule update, task queue is full",
				"card_id", update.CardID,
				"event_id", event.ID)
			return nil
		}
		h.logger.Error("failed to submit task",
			"error", err,
			"task_id", task.ID(),
			"event_id", event.ID)
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Debug("schedule task submitted",
		"task_id", task.ID(),
		"card_id", update.CardID,
		"event_id", event.ID)
	return nil
}

var _ events.EventHandler = (*ScheduleEventHandler)(nil)
