package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/domain/srs"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/platform/random"
	"github.com/phrazzld/scry-study/internal/quiz"
	"github.com/phrazzld/scry-study/internal/review"
)

// CardSource supplies the card pool for a topic. Implementations return the
// cards in the order they should be reviewed.
type CardSource interface {
	ListByTopic(ctx context.Context, userID uuid.UUID, topic string) ([]domain.Card, error)
}

// Summary is the payload of the session_finished event.
type Summary struct {
	UserID   uuid.UUID `json:"user_id"`
	Topic    string    `json:"topic"`
	Mode     Mode      `json:"mode"`
	Cards    int       `json:"cards"`
	Score    int       `json:"score"`
	Attempts int       `json:"attempts"`
}

// Controller runs the study sessions of one learner.
type Controller struct {
	userID    uuid.UUID
	source    CardSource
	rng       *rand.Rand
	now       func() time.Time
	scheduler srs.Service
	emitter   events.EventEmitter
	logger    *slog.Logger

	state State
	mode  Mode
	topic string
	pool  []domain.Card

	flash *review.Queue
	quiz  *quiz.Session

	lastAnswer *AnswerView
	lastRating *RatingView
}

// Option configures a Controller.
type Option func(*Controller)

// WithRand sets the random source used for orientation, shuffling and distractors.
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) { c.rng = rng }
}

// WithClock sets the clock used to compute review dates.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithScheduler sets the scheduler for recalled cards.
func WithScheduler(s srs.Service) Option {
	return func(c *Controller) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithEmitter sets where card_rescheduled and session_finished events go.
// Without one no events are published.
func WithEmitter(e events.EventEmitter) Option {
	return func(c *Controller) { c.emitter = e }
}

// WithLogger sets the fallback logger. A logger in the command context wins.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewController creates a controller in topic selection for userID.
func NewController(userID uuid.UUID, source CardSource, opts ...Option) *Controller {
	if source == nil {
		panic("card source cannot be nil")
	}

	c := &Controller{
		userID:    userID,
		source:    source,
		now:       func() time.Time { return time.Now().UTC() },
		scheduler: srs.NewDefaultService(),
		logger:    slog.Default(),
		state:     StateTopicSelection,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.rng = random.OrNew(c.rng)
	c.logger = c.logger.With(slog.String("component", "session_controller"))

	return c
}

// UserID returns the learner the controller belongs to.
func (c *Controller) UserID() uuid.UUID {
	return c.userID
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Mode returns the active mode, empty in topic selection.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Topic returns the selected topic, empty in topic selection.
func (c *Controller) Topic() string {
	return c.topic
}

// SelectTopic loads the pool for topic and starts a session in mode.
// An empty pool returns ErrNothingToStudy and leaves the controller in topic
// selection.
func (c *Controller) SelectTopic(ctx context.Context, topic string, mode Mode) error {
	if c.state != StateTopicSelection {
		return ErrTopicAlreadySelected
	}

	topic = strings.TrimSpace(topic)
	if topic == "" {
		return ErrNoTopic
	}
	if !mode.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	cards, err := c.source.ListByTopic(ctx, c.userID, topic)
	if err != nil {
		return fmt.Errorf("failed to load cards for topic %q: %w", topic, err)
	}
	if len(cards) == 0 {
		return fmt.Errorf("%w: topic %q has no cards", ErrNothingToStudy, topic)
	}

	pool := make([]domain.Card, len(cards))
	copy(pool, cards)

	if err := c.begin(mode, pool); err != nil {
		return err
	}
	c.topic = topic

	c.log(ctx).InfoContext(ctx, "study session started",
		slog.String("user_id", c.userID.String()),
		slog.String("topic", topic),
		slog.String("mode", string(mode)),
		slog.Int("cards", len(pool)))

	return nil
}

// SubmitRating rates the card at the head of the flashcard queue.
// Hard and Easy reschedule the card, emit card_rescheduled and remove it from
// the session. Again sends it to the back of the queue and persists nothing.
func (c *Controller) SubmitRating(ctx context.Context, rating domain.Rating) error {
	if c.state != StateActive {
		return ErrNotActive
	}
	if !c.mode.IsFlashcard() {
		return ErrWrongMode
	}

	decision, err := review.DecisionFor(rating)
	if err != nil {
		return err
	}

	head, ok := c.flash.Head()
	if !ok {
		return review.ErrQueueEmpty
	}

	view := &RatingView{CardID: head.Card.ID, Rating: rating, Recalled: decision == review.Recalled}

	if decision == review.Recalled {
		update, err := c.scheduler.Reschedule(&head.Card, rating, c.now())
		if err != nil {
			return fmt.Errorf("failed to reschedule card %s: %w", head.Card.ID, err)
		}
		c.updatePool(*update)
		next := update.NextReview
		view.NextReview = &next
		view.Interval = update.Memory.Interval
		c.emit(ctx, events.TypeCardRescheduled, *update)
	}

	if _, err := c.flash.Advance(decision); err != nil {
		return err
	}
	c.lastRating = view

	if c.flash.Finished() {
		c.finish(ctx)
	}

	return nil
}

// SubmitAnswer answers the current quiz question. Only the current instance
// can be answered; repeating an earlier submission returns its recorded
// result without changing the session.
func (c *Controller) SubmitAnswer(ctx context.Context, questionID uuid.UUID, option string) error {
	if c.state == StateTopicSelection {
		return ErrNotActive
	}
	if c.mode != ModeQuiz {
		return ErrWrongMode
	}

	result, err := c.quiz.Answer(questionID, option)
	if err != nil {
		if errors.Is(err, quiz.ErrSessionFinished) {
			return ErrNotActive
		}
		return err
	}

	c.lastAnswer = &AnswerView{
		QuestionID:    result.InstanceID,
		Chosen:        result.Chosen,
		Correct:       result.Correct,
		CorrectAnswer: result.CorrectAnswer,
		Duplicate:     result.Duplicate,
	}

	if result.Duplicate {
		return nil
	}

	c.log(ctx).DebugContext(ctx, "quiz answer recorded",
		slog.String("question_id", questionID.String()),
		slog.Bool("correct", result.Correct),
		slog.Int("score", c.quiz.Score()),
		slog.Int("attempts", c.quiz.Attempts()))

	if result.Finished {
		c.finish(ctx)
	}

	return nil
}

// SwitchMode discards the current progress and starts over in mode with the
// full pool of the selected topic. Cards rescheduled earlier in this session
// keep their new memory state. A finished session can only be restarted or
// returned to topic selection.
func (c *Controller) SwitchMode(ctx context.Context, mode Mode) error {
	switch c.state {
	case StateTopicSelection:
		return ErrNoTopic
	case StateFinished:
		return ErrNotActive
	}
	if !mode.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	if err := c.begin(mode, c.pool); err != nil {
		return err
	}

	c.log(ctx).InfoContext(ctx, "study mode switched",
		slog.String("topic", c.topic),
		slog.String("mode", string(mode)))

	return nil
}

// Restart runs the same topic and mode again from the beginning, from an
// active or a finished session.
func (c *Controller) Restart(ctx context.Context) error {
	if c.state == StateTopicSelection {
		return ErrNoTopic
	}

	if err := c.begin(c.mode, c.pool); err != nil {
		return err
	}

	c.log(ctx).InfoContext(ctx, "study session restarted",
		slog.String("topic", c.topic),
		slog.String("mode", string(c.mode)))

	return nil
}

// ReturnToTopics abandons the current session and goes back to topic selection.
func (c *Controller) ReturnToTopics() {
	c.state = StateTopicSelection
	c.mode = ""
	c.topic = ""
	c.pool = nil
	c.reset()
}

func (c *Controller) begin(mode Mode, pool []domain.Card) error {
	var (
		flash   *review.Queue
		session *quiz.Session
		err     error
	)

	if mode == ModeQuiz {
		session, err = quiz.Build(pool, c.rng)
	} else {
		flash, err = review.New(pool, mode.orientation(), c.rng)
	}
	if err != nil {
		if errors.Is(err, quiz.ErrEmptyPool) {
			return ErrNothingToStudy
		}
		return err
	}

	c.reset()
	c.pool = pool
	c.mode = mode
	c.flash = flash
	c.quiz = session
	c.state = StateActive

	return nil
}

func (c *Controller) reset() {
	c.flash = nil
	c.quiz = nil
	c.lastAnswer = nil
	c.lastRating = nil
}

func (c *Controller) finish(ctx context.Context) {
	c.state = StateFinished

	summary := Summary{UserID: c.userID, Topic: c.topic, Mode: c.mode, Cards: len(c.pool)}
	if c.quiz != nil {
		summary.Score = c.quiz.Score()
		summary.Attempts = c.quiz.Attempts()
	}

	c.log(ctx).InfoContext(ctx, "study session finished",
		slog.String("topic", c.topic),
		slog.String("mode", string(c.mode)),
		slog.Int("score", summary.Score),
		slog.Int("attempts", summary.Attempts))

	c.emit(ctx, events.TypeSessionFinished, summary)
}

// updatePool keeps the pool copy of a rescheduled card current so a restart
// or mode switch starts from the new memory state.
func (c *Controller) updatePool(update domain.ScheduleUpdate) {
	for i := range c.pool {
		if c.pool[i].ID == update.CardID {
			c.pool[i] = c.pool[i].WithSchedule(update)
			return
		}
	}
}

// emit publishes an event. Failures are logged and never reach the caller.
func (c *Controller) emit(ctx context.Context, eventType string, payload interface{}) {
	if c.emitter == nil {
		return
	}

	log := c.log(ctx)
	event, err := events.NewEvent(eventType, payload)
	if err != nil {
		log.ErrorContext(ctx, "failed to create event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}

	if err := c.emitter.EmitEvent(ctx, event); err != nil {
		log.WarnContext(ctx, "failed to emit event",
			slog.String("event_type", eventType),
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()))
	}
}

func (c *Controller) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, c.logger)
}
