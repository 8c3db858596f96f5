package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerPool(t *testing.T) {
	t.Parallel()
	logger := setupTestLogger()
	q := NewTaskQueue(10, logger)

	pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 5}, logger)
	assert.Equal(t, 5, pool.workerCount)
	assert.Nil(t, pool.errorHandler)

	pool = NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 0}, logger)
	assert.Equal(t, 1, pool.workerCount)

	pool = NewWorkerPool(q, WorkerPoolConfig{WorkerCount: -5}, logger)
	assert.Equal(t, 1, pool.workerCount)
}

func TestWorkerPool_ProcessesTasks(t *testing.T) {
	t.Parallel()
	logger := setupTestLogger()
	q := NewTaskQueue(10, logger)
	pool := NewWorkerPool(q, DefaultWorkerPoolConfig(), logger)
	pool.Start()

	var executed atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(newMockTask(func(ctx context.Context) error {
			executed.Add(1)
			return nil
		})))
	}

	q.Close()
	pool.Wait()
	assert.Equal(t, int32(5), executed.Load())
}

func TestWorkerPool_ErrorHandler(t *testing.T) {
	t.Parallel()
	logger := setupTestLogger()
	q := NewTaskQueue(10, logger)
	pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 1}, logger)

	taskErr := errors.New("boom")
	failures := make(chan error, 1)
	pool.SetErrorHandler(func(task Task, err error) {
		failures <- err
	})
	pool.Start()
	defer pool.Stop()

	require.NoError(t, q.Enqueue(newMockTask(func(ctx context.Context) error {
		return taskErr
	})))

	select {
	case err := <-failures:
		assert.ErrorIs(t, err, taskErr)
	case <-time.After(2 * time.Second):
		t.Fatal("error handler was not called")
	}
}

func TestWorkerPool_RecoversFromPanic(t *testing.T) {
	t.Parallel()
	logger := setupTestLogger()
	q := NewTaskQueue(10, logger)
	pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 1}, logger)
	pool.Start()

	var after atomic.Bool
	require.NoError(t, q.Enqueue(newMockTask(func(ctx context.Context) error {
		panic("unexpected")
	})))
	require.NoError(t, q.Enqueue(newMockTask(func(ctx context.Context) error {
		after.Store(true)
		return nil
	})))

	q.Close()
	pool.Wait()
	assert.True(t, after.Load(), "worker keeps running after a panic")
}

func TestWorkerPool_StopCancelsContext(t *testing.T) {
	t.Parallel()
	logger := setupTestLogger()
	q := NewTaskQueue(10, logger)
	pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 1}, logger)
	pool.Start()

	started := make(chan struct{})
	require.NoError(t, q.Enqueue(newMockTask(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})))

	<-started
	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not stop")
	}
}
