package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/scry-study/internal/api"
	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/platform/memory"
	"github.com/phrazzld/scry-study/internal/platform/sqlstore"
	"github.com/phrazzld/scry-study/internal/service/study"
	"github.com/phrazzld/scry-study/internal/store"
	"github.com/phrazzld/scry-study/internal/task"
)

// evictionInterval is how often idle study sessions are swept.
const evictionInterval = time.Minute

// application holds the shared dependencies so they can be torn down
// together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil for the memory driver.
	db        *sql.DB
	cardStore store.CardStore

	eventEmitter *events.InMemoryEventEmitter
	taskRunner   *task.Runner
	studyService *study.Service
}

// newApplication wires stores, the persistence runner and the study service.
// The task runner is started here; cleanup stops it.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	if err := app.setupStore(ctx); err != nil {
		return nil, err
	}

	app.taskRunner = task.NewRunner(task.RunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
	}, logger)
	app.taskRunner.Start()

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(task.NewScheduleEventHandler(app.taskRunner, app.cardStore, logger))

	var err error
	app.studyService, err = study.NewService(app.cardStore, app.eventEmitter, study.ConfigFrom(cfg.Study), logger)
	if err != nil {
		app.cleanup(ctx)
		return nil, fmt.Errorf("failed to create study service: %w", err)
	}

	logger.Info("application initialized",
		slog.Int("worker_count", cfg.Task.WorkerCount),
		slog.Int("max_sessions", cfg.Study.MaxSessions))
	return app, nil
}

// setupStore opens the configured card store. SQLite databases are local to
// the process and are migrated on startup; postgres expects `migrate up`.
func (app *application) setupStore(ctx context.Context) error {
	if app.config.Database.Driver == config.DriverMemory {
		app.cardStore = memory.NewCardStore()
		app.logger.Warn("using in-memory card store, cards are lost on exit")
		return nil
	}

	db, err := sqlstore.Open(ctx, app.config.Database, app.logger)
	if err != nil {
		return err
	}

	if app.config.Database.Driver == config.DriverSQLite {
		if err := sqlstore.Migrate(ctx, db, config.DriverSQLite, sqlstore.MigrateUp, app.logger); err != nil {
			_ = db.Close()
			return err
		}
	}

	app.db = db
	app.cardStore = sqlstore.NewCardStore(db, app.logger)
	return nil
}

// handler builds the HTTP handler tree.
func (app *application) handler() http.Handler {
	return api.NewRouter(app.studyService, app.logger)
}

// Run serves HTTP until a shutdown signal arrives or ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	evictCtx, stopEviction := context.WithCancel(ctx)
	defer stopEviction()
	go app.studyService.RunEviction(evictCtx, evictionInterval)

	if err := app.startHTTPServer(ctx, app.handler()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup drains pending writes before closing the database they go to.
func (app *application) cleanup(ctx context.Context) {
	if app.taskRunner != nil {
		app.taskRunner.Stop(ctx)
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
