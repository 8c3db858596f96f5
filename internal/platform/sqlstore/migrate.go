package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migration commands accepted by Migrate.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateStatus  = "status"
	MigrateReset   = "reset"
	MigrateVersion = "version"
)

// ErrUnknownMigrateCommand is returned for commands Migrate does not support.
var ErrUnknownMigrateCommand = errors.New("unknown migration command")

func newProvider(db *sql.DB, driver string) (*goose.Provider, error) {
	var (
		dialect goose.Dialect
		dir     string
	)
	switch driver {
	case config.DriverPostgres:
		dialect, dir = goose.DialectPostgres, "migrations/postgres"
	case config.DriverSQLite:
		dialect, dir = goose.DialectSQLite3, "migrations/sqlite"
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	sub, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to locate embedded migrations: %w", err)
	}

	return goose.NewProvider(dialect, db, sub)
}

// Migrate runs a goose command against db using the embedded migrations for
// driver.
func Migrate(ctx context.Context, db *sql.DB, driver, command string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(
		slog.String("component", "migrations"),
		slog.String("command", command),
		slog.String("driver", driver),
	)

	provider, err := newProvider(db, driver)
	if err != nil {
		return err
	}

	var results []*goose.MigrationResult
	switch command {
	case MigrateUp:
		results, err = provider.Up(ctx)
	case MigrateDown:
		var res *goose.MigrationResult
		res, err = provider.Down(ctx)
		if res != nil {
			results = append(results, res)
		}
	case MigrateReset:
		results, err = provider.DownTo(ctx, 0)
	case MigrateStatus:
		return logStatus(ctx, provider, log)
	case MigrateVersion:
		version, verr := provider.GetDBVersion(ctx)
		if verr != nil {
			return fmt.Errorf("failed to read schema version: %w", verr)
		}
		log.Info("current schema version", slog.Int64("version", version))
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMigrateCommand, command)
	}

	for _, r := range results {
		log.Info("migration applied",
			slog.Int64("version", r.Source.Version),
			slog.String("direction", r.Direction),
			slog.Duration("duration", r.Duration))
	}

	if err != nil {
		if errors.Is(err, goose.ErrNoNextVersion) && command == MigrateDown {
			log.Info("no migrations to roll back")
			return nil
		}
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Info("migrations complete", slog.Int("count", len(results)))
	return nil
}

func logStatus(ctx context.Context, provider *goose.Provider, log *slog.Logger) error {
	statuses, err := provider.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}
	for _, s := range statuses {
		attrs := []any{
			slog.Int64("version", s.Source.Version),
			slog.String("state", string(s.State)),
		}
		if !s.AppliedAt.IsZero() {
			attrs = append(attrs, slog.Time("applied_at", s.AppliedAt))
		}
		log.Info("migration status", attrs...)
	}
	return nil
}
