package task

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/scry-study/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSubmitter records submitted tasks and optionally fails.
type stubSubmitter struct {
	submitted []Task
	err       error
}

func (s *stubSubmitter) Submit(ctx context.Context, task Task) error {
	if s.err != nil {
		return s.err
	}
	s.submitted = append(s.submitted, task)
	return nil
}

func TestScheduleEventHandler_HandleEvent(t *testing.T) {
	t.Parallel()
	logger := setupTestLogger()

	t.Run("submits persist task", func(t *testing.T) {
		t.Parallel()
		submitter := &stubSubmitter{}
		handler := NewScheduleEventHandler(submitter, &recordingWriter{}, logger)

		update := validUpdate()
		event, err := events.NewEvent(events.TypeCardRescheduled, update)
		require.NoError(t, err)

		require.NoError(t, handler.HandleEvent(context.Background(), event))
		require.Len(t, submitter.submitted, 1)

		task, ok := submitter.submitted[0].(*PersistScheduleTask)
		require.True(t, ok)
		assert.Equal(t, update.CardID, task.Update().CardID)
		assert.Equal(t, update.Memory, task.Update().Memory)
		assert.True(t, update.NextReview.Equal(task.Update().NextReview))
	})

	t.Run("ignores other event types", func(t *testing.T) {
		t.Parallel()
		submitter := &stubSubmitter{}
		handler := NewScheduleEventHandler(submitter, &recordingWriter{}, logger)

		event, err := events.NewEvent(events.TypeSessionFinished, nil)
		require.NoError(t, err)

		require.NoError(t, handler.HandleEvent(context.Background(), event))
		assert.Empty(t, submitter.submitted)
	})

	t.Run("malformed payload", func(t *testing.T) {
		t.Parallel()
		handler := NewScheduleEventHandler(&stubSubmitter{}, &recordingWriter{}, logger)

		event, err := events.NewEvent(events.TypeCardRescheduled, "not an update")
		require.NoError(t, err)

		assert.Error(t, handler.HandleEvent(context.Background(), event))
	})

	t.Run("invalid update", func(t *testing.T) {
		t.Parallel()
		handler := NewScheduleEventHandler(&stubSubmitter{}, &recordingWriter{}, logger)
		update := validUpdate()
		update.Memory.Interval = -1

		event, err := events.NewEvent(events.TypeCardRescheduled, update)
		require.NoError(t, err)

		assert.Error(t, handler.HandleEvent(context.Background(), event))
	})

	t.Run("full queue drops silently", func(t *testing.T) {
		t.Parallel()
		submitter := &stubSubmitter{err: fmt.Errorf("submit: %w", ErrQueueFull)}
		handler := NewScheduleEventHandler(submitter, &recordingWriter{}, logger)

		event, err := events.NewEvent(events.TypeCardRescheduled, validUpdate())
		require.NoError(t, err)

		assert.NoError(t, handler.HandleEvent(context.Background(), event))
	})

	t.Run("other submit errors are returned", func(t *testing.T) {
		t.Parallel()
		submitter := &stubSubmitter{err: ErrQueueClosed}
		handler := NewScheduleEventHandler(submitter, &recordingWriter{}, logger)

		event, err := events.NewEvent(events.TypeCardRescheduled, validUpdate())
		require.NoError(t, err)

		assert.True(t, errors.Is(handler.HandleEvent(context.Background(), event), ErrQueueClosed))
	})

	t.Run("nil dependencies panic", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { NewScheduleEventHandler(nil, &recordingWriter{}, logger) })
		assert.Panics(t, func() { NewScheduleEventHandler(&stubSubmitter{}, nil, logger) })
	})
}

func TestScheduleEventHandler_EndToEnd(t *testing.T) {
	t.Parallel()
	writer := &recordingWriter{}
	runner := NewRunner(RunnerConfig{WorkerCount: 1, QueueSize: 4}, setupTestLogger())
	runner.Start()

	emitter := events.NewInMemoryEventEmitter(setupTestLogger())
	emitter.RegisterHandler(NewScheduleEventHandler(runner, writer, setupTestLogger()))

	update := validUpdate()
	event, err := events.NewEvent(events.TypeCardRescheduled, update)
	require.NoError(t, err)
	require.NoError(t, emitter.EmitEvent(context.Background(), event))

	runner.Stop(context.Background())
	require.Len(t, writer.Updates(), 1)
	assert.Equal(t, update.CardID, writer.Updates()[0].CardID)
}
