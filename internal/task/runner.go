package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// RunnerConfig holds configuration for the task runner
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// Runner owns a TaskQueue and the WorkerPool draining it.
type Runner struct {
	queue    *TaskQueue
	pool     *WorkerPool
	logger   *slog.Logger
	stopOnce sync.Once
}

// NewRunner creates a Runner. Call Start before submitting work.
func NewRunner(config RunnerConfig, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "task_runner")

	queue := NewTaskQueue(config.QueueSize, logger)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: config.WorkerCount}, logger)

	return &Runner{
		queue:  queue,
		pool:   pool,
		logger: logger,
	}
}

// SetErrorHandler installs a callback for failed tasks.
func (r *Runner) SetErrorHandler(handler func(task Task, err error)) {
	r.pool.SetErrorHandler(handler)
}

// Start launches the worker pool.
func (r *Runner) Start() {
	r.pool.Start()
}

// Submit enqueues a task without blocking.
func (r *Runner) Submit(ctx context.Context, task Task) error {
	if task == nil {
		return fmt.Errorf("submit task: nil task")
	}
	if err := r.queue.Enqueue(task); err != nil {
		return fmt.Errorf("submit task %s: %w", task.ID(), err)
	}
	return nil
}

// Pending returns the number of queued tasks not yet picked up by a worker.
func (r *Runner) Pending() int {
	return r.queue.Len()
}

// Stop closes the queue, lets the workers drain what is buffered, and waits
// for them. If ctx expires first the remaining work is cancelled.
func (r *Runner) Stop(ctx context.Context) {
	r.stopOnce.Do(func() {
		r.queue.Close()

		drained := make(chan struct{})
		go func() {
			r.pool.Wait()
			close(drained)
		}()

		select {
		case <-drained:
			r.logger.Info("task runner drained")
		case <-ctx.Done():
			r.logger.Warn("task runner stop deadline reached, cancelling pending tasks",
				"pending", r.queue.Len())
		}
		r.pool.Stop()
	})
}

var _ Submitter = (*Runner)(nil)
