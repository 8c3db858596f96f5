package task

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockTask is a minimal Task whose Execute is controlled by the test.
type mockTask struct {
	id        uuid.UUID
	executeFn func(ctx context.Context) error
}

func newMockTask(fn func(ctx context.Context) error) *mockTask {
	if fn == nil {
		fn = func(ctx context.Context) error { return nil }
	}
	return &mockTask{id: uuid.New(), executeFn: fn}
}

func (t *mockTask) ID() uuid.UUID                     { return t.id }
func (t *mockTask) Type() string                      { return "mock_task" }
func (t *mockTask) Payload() []byte                   { return nil }
func (t *mockTask) Status() TaskStatus                { return TaskStatusPending }
func (t *mockTask) Execute(ctx context.Context) error { return t.executeFn(ctx) }

// recordingWriter captures schedule updates.
type recordingWriter struct {
	mu      sync.Mutex
	updates []domain.ScheduleUpdate
	err     error
}

func (w *recordingWriter) UpdateSchedule(ctx context.Context, update domain.ScheduleUpdate) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.updates = append(w.updates, update)
	return nil
}

func (w *recordingWriter) Updates() []domain.ScheduleUpdate {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]domain.ScheduleUpdate, len(w.updates))
	copy(out, w.updates)
	return out
}

func validUpdate() domain.ScheduleUpdate {
	return domain.ScheduleUpdate{
		CardID:     uuid.New(),
		UserID:     uuid.New(),
		Memory:     domain.MemoryState{Repetition: 1, Interval: 1, EaseFactor: 2.36},
		NextReview: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}
