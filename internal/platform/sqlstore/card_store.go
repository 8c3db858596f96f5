package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// Placeholders are written in ascending order of first use so SQLite binds
// them positionally exactly like PostgreSQL does.
const (
	cardColumns = `id, user_id, topic, front, back, repetition, interval_days, ease_factor,
		next_review, created_at, updated_at`

	insertCardSQL = `INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	getCardSQL = `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	listTopicsSQL = `SELECT DISTINCT topic FROM cards WHERE user_id = $1 ORDER BY topic`

	listByTopicSQL = `SELECT ` + cardColumns + ` FROM cards
		WHERE user_id = $1 AND topic = $2
		ORDER BY next_review ASC, created_at ASC, id ASC`

	updateScheduleSQL = `UPDATE cards
		SET repetition = $1, interval_days = $2, ease_factor = $3, next_review = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7`

	deleteCardSQL = `DELETE FROM cards WHERE id = $1`
)

// CardStore implements store.CardStore over database/sql.
type CardStore struct {
	db     store.DBTX
	sqlDB  *sql.DB // nil when bound to a transaction
	logger *slog.Logger
	now    func() time.Time
}

var _ store.CardStore = (*CardStore)(nil)

// NewCardStore creates a store on db. If logger is nil, slog.Default is used.
func NewCardStore(db *sql.DB, logger *slog.Logger) *CardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CardStore{
		db:     db,
		sqlDB:  db,
		logger: logger.With(slog.String("component", "card_store")),
		now:    time.Now,
	}
}

// WithTx returns a copy of the store that runs every statement in tx.
func (s *CardStore) WithTx(tx *sql.Tx) *CardStore {
	return &CardStore{
		db:     tx,
		logger: s.logger,
		now:    s.now,
	}
}

// dbTime normalises timestamps so both dialects store and order them the same way.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func (s *CardStore) insert(ctx context.Context, card *domain.Card) error {
	if card == nil {
		return fmt.Errorf("%w: nil card", store.ErrInvalidEntity)
	}
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, insertCardSQL,
		card.ID,
		card.UserID,
		card.Topic,
		card.Front,
		card.Back,
		card.Memory.Repetition,
		card.Memory.Interval,
		card.Memory.EaseFactor,
		dbTime(card.NextReview),
		dbTime(card.CreatedAt),
		dbTime(card.UpdatedAt),
	)
	if err != nil {
		return MapError(err)
	}
	return nil
}

// Create implements store.CardStore.Create.
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.insert(ctx, card); err != nil {
		log.Error("failed to create card", slog.String("error", err.Error()))
		return err
	}

	log.Debug("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("topic", card.Topic))
	return nil
}

// CreateMultiple implements store.CardStore.CreateMultiple. When the store is
// not already bound to a transaction it opens one.
func (s *CardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	if len(cards) == 0 {
		return nil
	}

	insertAll := func(ctx context.Context, target *CardStore) error {
		for _, card := range cards {
			if err := target.insert(ctx, card); err != nil {
				return err
			}
		}
		return nil
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	var err error
	if s.sqlDB != nil {
		err = store.RunInTransaction(ctx, s.sqlDB, func(ctx context.Context, tx *sql.Tx) error {
			return insertAll(ctx, s.WithTx(tx))
		})
	} else {
		err = insertAll(ctx, s)
	}
	if err != nil {
		log.Error("failed to create cards",
			slog.Int("count", len(cards)),
			slog.String("error", err.Error()))
		return err
	}

	log.Debug("cards created", slog.Int("count", len(cards)))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (domain.Card, error) {
	var c domain.Card
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Topic,
		&c.Front,
		&c.Back,
		&c.Memory.Repetition,
		&c.Memory.Interval,
		&c.Memory.EaseFactor,
		&c.NextReview,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return domain.Card{}, err
	}
	c.NextReview = c.NextReview.UTC()
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}

// GetByID implements store.CardStore.GetByID.
func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	card, err := scanCard(s.db.QueryRowContext(ctx, getCardSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get card",
			slog.String("card_id", id.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return &card, nil
}

// ListTopics implements store.CardStore.ListTopics.
func (s *CardStore) ListTopics(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, listTopicsSQL, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	topics := []string{}
	for rows.Next() {
		var topic string
		if err := rows.Scan(&topic); err != nil {
			return nil, MapError(err)
		}
		topics = append(topics, topic)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return topics, nil
}

// ListByTopic implements store.CardStore.ListByTopic.
func (s *CardStore) ListByTopic(ctx context.Context, userID uuid.UUID, topic string) ([]domain.Card, error) {
	rows, err := s.db.QueryContext(ctx, listByTopicSQL, userID, topic)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := []domain.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("cards listed",
		slog.String("topic", topic),
		slog.Int("count", len(cards)))
	return cards, nil
}

// UpdateSchedule implements store.CardStore.UpdateSchedule.
func (s *CardStore) UpdateSchedule(ctx context.Context, update domain.ScheduleUpdate) error {
	if err := update.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx, updateScheduleSQL,
		update.Memory.Repetition,
		update.Memory.Interval,
		update.Memory.EaseFactor,
		dbTime(update.NextReview),
		dbTime(s.now()),
		update.CardID,
		update.UserID,
	)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrCardNotFound
		}
		return err
	}
	return nil
}

// Delete implements store.CardStore.Delete.
func (s *CardStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, deleteCardSQL, id)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrCardNotFound
		}
		return err
	}
	return nil
}
