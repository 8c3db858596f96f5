package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_SubmitAndDrain(t *testing.T) {
	t.Parallel()
	writer := &recordingWriter{}
	runner := NewRunner(RunnerConfig{WorkerCount: 2, QueueSize: 10}, setupTestLogger())
	runner.Start()

	for i := 0; i < 3; i++ {
		task, err := NewPersistScheduleTask(validUpdate(), writer, nil)
		require.NoError(t, err)
		require.NoError(t, runner.Submit(context.Background(), task))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	runner.Stop(ctx)

	assert.Len(t, writer.Updates(), 3)
}

func TestRunner_SubmitAfterStop(t *testing.T) {
	t.Parallel()
	runner := NewRunner(DefaultRunnerConfig(), setupTestLogger())
	runner.Start()
	runner.Stop(context.Background())
	runner.Stop(context.Background()) // second call is a no-op

	err := runner.Submit(context.Background(), newMockTask(nil))
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestRunner_SubmitNil(t *testing.T) {
	t.Parallel()
	runner := NewRunner(DefaultRunnerConfig(), nil)
	assert.Error(t, runner.Submit(context.Background(), nil))
}

func TestRunner_QueueFull(t *testing.T) {
	t.Parallel()
	// Not started, so nothing drains the queue.
	runner := NewRunner(RunnerConfig{WorkerCount: 1, QueueSize: 1}, setupTestLogger())

	require.NoError(t, runner.Submit(context.Background(), newMockTask(nil)))
	assert.Equal(t, 1, runner.Pending())
	assert.ErrorIs(t, runner.Submit(context.Background(), newMockTask(nil)), ErrQueueFull)
}
