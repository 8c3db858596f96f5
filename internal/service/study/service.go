package study

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/domain/srs"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/platform/random"
	"github.com/phrazzld/scry-study/internal/session"
	"github.com/phrazzld/scry-study/internal/store"
)

// Config bounds the session registry.
type Config struct {
	// SessionTTL is how long a session may sit idle before it is evicted.
	SessionTTL time.Duration
	// MaxSessions caps the number of live sessions across all users.
	MaxSessions int
}

// ConfigFrom converts the loaded study configuration.
func ConfigFrom(cfg config.StudyConfig) Config {
	return Config{SessionTTL: cfg.SessionTTL(), MaxSessions: cfg.MaxSessions}
}

// NewCard is the authoring input for one card.
type NewCard struct {
	Topic string
	Front string
	Back  string
}

// SessionView is a session snapshot together with its identifier.
type SessionView struct {
	ID uuid.UUID `json:"id"`
	session.Snapshot
}

type entry struct {
	// mu serialises commands on the controller.
	mu       sync.Mutex
	id       uuid.UUID
	userID   uuid.UUID
	ctrl     *session.Controller
	lastUsed time.Time
}

// Service runs study sessions on top of a card store.
type Service struct {
	cards     store.CardStore
	emitter   events.EventEmitter
	scheduler srs.Service
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time
	newRand   func() *rand.Rand

	mu       sync.Mutex
	sessions map[uuid.UUID]*entry
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used for scheduling and idle tracking.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRandFactory sets how each session gets its random source.
func WithRandFactory(f func() *rand.Rand) Option {
	return func(s *Service) {
		if f != nil {
			s.newRand = f
		}
	}
}

// WithScheduler replaces the default SM-2 scheduler.
func WithScheduler(scheduler srs.Service) Option {
	return func(s *Service) {
		if scheduler != nil {
			s.scheduler = scheduler
		}
	}
}

// NewService creates a study service. cards is required; emitter may be nil,
// in which case rescheduled cards are not persisted.
func NewService(
	cards store.CardStore,
	emitter events.EventEmitter,
	cfg Config,
	log *slog.Logger,
	opts ...Option,
) (*Service, error) {
	if cards == nil {
		return nil, fmt.Errorf("%w: card store cannot be nil", domain.ErrValidation)
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1000
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Service{
		cards:     cards,
		emitter:   emitter,
		scheduler: srs.NewDefaultService(),
		cfg:       cfg,
		logger:    log.With(slog.String("component", "study_service")),
		now:       func() time.Time { return time.Now().UTC() },
		newRand:   random.New,
		sessions:  make(map[uuid.UUID]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ListTopics returns the user's topics.
func (s *Service) ListTopics(ctx context.Context, userID uuid.UUID) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	topics, err := s.cards.ListTopics(ctx, userID)
	if err != nil {
		log.Error("failed to list topics",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("list_topics", "failed to list topics", err)
	}
	return topics, nil
}

// AddCards creates cards for userID in one batch. Either all are stored or none.
func (s *Service) AddCards(ctx context.Context, userID uuid.UUID, input []NewCard) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(input) == 0 {
		return nil, NewServiceError("add_cards", "no cards given", ErrNoCards)
	}

	cards := make([]*domain.Card, 0, len(input))
	for _, in := range input {
		card, err := domain.NewCard(userID, in.Topic, in.Front, in.Back)
		if err != nil {
			return nil, NewServiceError("add_cards", "invalid card", fmt.Errorf("%w: %w", domain.ErrValidation, err))
		}
		cards = append(cards, card)
	}

	if err := s.cards.CreateMultiple(ctx, cards); err != nil {
		log.Error("failed to create cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int("card_count", len(cards)))
		return nil, NewServiceError("add_cards", "failed to save cards", err)
	}

	log.Info("cards created",
		slog.String("user_id", userID.String()),
		slog.Int("card_count", len(cards)))
	return cards, nil
}

// PostponeCard pushes a card's next review forward by days without touching
// its memory state.
func (s *Service) PostponeCard(ctx context.Context, userID, cardID uuid.UUID, days int) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewServiceError("postpone_card", "card not found", store.ErrCardNotFound)
		}
		log.Error("failed to load card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewServiceError("postpone_card", "failed to load card", err)
	}

	if card.UserID != userID {
		log.Warn("postpone attempted on another user's card",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, NewServiceError("postpone_card", "card not owned by user", ErrCardNotOwned)
	}

	update, err := s.scheduler.Postpone(card, days, s.now())
	if err != nil {
		return nil, NewServiceError("postpone_card", "invalid postpone", fmt.Errorf("%w: %w", domain.ErrValidation, err))
	}

	if err := s.cards.UpdateSchedule(ctx, *update); err != nil {
		log.Error("failed to save postponed card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewServiceError("postpone_card", "failed to save card", err)
	}

	postponed := card.WithSchedule(*update)
	log.Debug("card postponed",
		slog.String("card_id", cardID.String()),
		slog.Int("days", days),
		slog.Time("next_review", postponed.NextReview))
	return &postponed, nil
}

// StartSession selects topic in mode for a new session. The session is only
// registered when the topic has cards.
func (s *Service) StartSession(
	ctx context.Context,
	userID uuid.UUID,
	topic string,
	mode session.Mode,
) (*SessionView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.evictExpired(ctx)
	if s.SessionCount() >= s.cfg.MaxSessions {
		log.Warn("session cap reached", slog.Int("max_sessions", s.cfg.MaxSessions))
		return nil, NewServiceError("start_session", "session cap reached", ErrTooManySessions)
	}

	ctrl := session.NewController(userID, s.cards,
		session.WithRand(s.newRand()),
		session.WithClock(s.now),
		session.WithScheduler(s.scheduler),
		session.WithEmitter(s.emitter),
		session.WithLogger(s.logger),
	)

	if err := ctrl.SelectTopic(ctx, topic, mode); err != nil {
		return nil, NewServiceError("start_session", "failed to start session", err)
	}

	e := &entry{id: uuid.New(), userID: userID, ctrl: ctrl, lastUsed: s.now()}

	s.mu.Lock()
	if len(s.sessions) >= s.cfg.MaxSessions {
		s.mu.Unlock()
		return nil, NewServiceError("start_session", "session cap reached", ErrTooManySessions)
	}
	s.sessions[e.id] = e
	s.mu.Unlock()

	log.Info("study session registered",
		slog.String("session_id", e.id.String()),
		slog.String("user_id", userID.String()))

	return &SessionView{ID: e.id, Snapshot: ctrl.Snapshot()}, nil
}

// GetSession returns the current view of a session.
func (s *Service) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error) {
	e, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, NewServiceError("get_session", "session not found", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return &SessionView{ID: e.id, Snapshot: e.ctrl.Snapshot()}, nil
}

// Apply runs cmd on a session. Commands on the same session never overlap.
// On error the returned view still reflects the session.
func (s *Service) Apply(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	cmd session.Command,
) (*SessionView, error) {
	e, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, NewServiceError("apply", "session not found", err)
	}

	ctx = logger.WithLogger(ctx, logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("session_id", sessionID.String())))

	e.mu.Lock()
	defer e.mu.Unlock()

	snap, err := e.ctrl.Apply(ctx, cmd)
	view := &SessionView{ID: e.id, Snapshot: snap}
	if err != nil {
		return view, NewServiceError("apply", "command rejected", err)
	}
	return view, nil
}

// EndSession discards a session.
func (s *Service) EndSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	if _, err := s.lookup(userID, sessionID); err != nil {
		return NewServiceError("end_session", "session not found", err)
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	logger.FromContextOrDefault(ctx, s.logger).Debug("study session ended",
		slog.String("session_id", sessionID.String()))
	return nil
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// RunEviction evicts idle sessions every interval until ctx is done.
func (s *Service) RunEviction(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictExpired(ctx)
		}
	}
}

// lookup finds a session owned by userID and marks it used. Sessions of
// other users are reported as not found.
func (s *Service) lookup(userID, sessionID uuid.UUID) (*entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok || e.userID != userID {
		return nil, ErrSessionNotFound
	}
	now := s.now()
	if now.Sub(e.lastUsed) > s.cfg.SessionTTL {
		delete(s.sessions, sessionID)
		return nil, ErrSessionNotFound
	}
	e.lastUsed = now
	return e, nil
}

func (s *Service) evictExpired(ctx context.Context) int {
	now := s.now()

	s.mu.Lock()
	evicted := 0
	for id, e := range s.sessions {
		if now.Sub(e.lastUsed) > s.cfg.SessionTTL {
			delete(s.sessions, id)
			evicted++
		}
	}
	s.mu.Unlock()

	if evicted > 0 {
		logger.FromContextOrDefault(ctx, s.logger).Info("evicted idle study sessions",
			slog.Int("evicted", evicted))
	}
	return evicted
}
