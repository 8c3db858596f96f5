package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
)

// ErrNilScheduleWriter is returned when a persist task is built without storage.
var ErrNilScheduleWriter = errors.New("schedule writer cannot be nil")

// ScheduleWriter is the storage capability a PersistScheduleTask needs.
// store.CardStore satisfies it.
type ScheduleWriter interface {
	UpdateSchedule(ctx context.Context, update domain.ScheduleUpdate) error
}

// PersistScheduleTask writes one schedule update to storage.
type PersistScheduleTask struct {
	id     uuid.UUID
	update domain.ScheduleUpdate
	writer ScheduleWriter
	logger *slog.Logger

	mu     sync.Mutex
	status TaskStatus
}

// NewPersistScheduleTask validates the update and returns a pending task.
func NewPersistScheduleTask(
	update domain.ScheduleUpdate,
	writer ScheduleWriter,
	logger *slog.Logger,
) (*PersistScheduleTask, error) {
	if writer == nil {
		return nil, ErrNilScheduleWriter
	}
	if err := update.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schedule update: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.New()
	return &PersistScheduleTask{
		id:     id,
		update: update,
		writer: writer,
		logger: logger.With("task_id", id, "task_type", TaskTypePersistSchedule),
		status: TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *PersistScheduleTask) ID() uuid.UUID {
	return t.id
}

// Type returns TaskTypePersistSchedule.
func (t *PersistScheduleTask) Type() string {
	return TaskTypePersistSchedule
}

// Payload returns the update as JSON.
func (t *PersistScheduleTask) Payload() []byte {
	data, err := json.Marshal(t.update)
	if err != nil {
		return nil
	}
	return data
}

// Status returns the current task status
func (t *PersistScheduleTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Update returns the schedule update carried by the task.
func (t *PersistScheduleTask) Update() domain.ScheduleUpdate {
	return t.update
}

func (t *PersistScheduleTask) setStatus(status TaskStatus) {
	t.mu.Lock()
	t.status = status
	t.mu.Unlock()
}

// Execute writes the update. There is no retry: a failed write leaves the
// card with its previous schedule and the failure is reported to the pool.
func (t *PersistScheduleTask) Execute(ctx context.Context) error {
	t.setStatus(TaskStatusProcessing)

	if err := t.writer.UpdateSchedule(ctx, t.update); err != nil {
		t.setStatus(TaskStatusFailed)
		return fmt.Errorf("persist schedule for card %s: %w", t.update.CardID, err)
	}

	t.setStatus(TaskStatusCompleted)
	t.logger.Debug("schedule persisted",
		"card_id", t.update.CardID,
		"interval", t.update.Memory.Interval,
		"next_review", t.update.NextReview)
	return nil
}

var _ Task = (*PersistScheduleTask)(nil)
