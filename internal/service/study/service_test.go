package study

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/platform/memory"
	"github.com/phrazzld/scry-study/internal/platform/random"
	"github.com/phrazzld/scry-study/internal/session"
	"github.com/phrazzld/scry-study/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.Event
}

func (e *recordingEmitter) EmitEvent(_ context.Context, event *events.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return nil
}

func (e *recordingEmitter) count(eventType string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, ev := range e.events {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

type fixture struct {
	svc     *Service
	cards   *memory.CardStore
	emitter *recordingEmitter
	clock   *testClock
	userID  uuid.UUID
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()

	f := &fixture{
		cards:   memory.NewCardStore(),
		emitter: &recordingEmitter{},
		clock:   &testClock{now: time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)},
		userID:  uuid.New(),
	}
	log, _ := logger.GetTestLogger(t)

	svc, err := NewService(f.cards, f.emitter, cfg, log,
		WithClock(f.clock.Now),
		WithRandFactory(func() *rand.Rand { return random.Seeded(7) }),
	)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *fixture) addCards(t *testing.T, topic string, n int) []*domain.Card {
	t.Helper()
	input := make([]NewCard, n)
	for i := range input {
		input[i] = NewCard{Topic: topic, Front: fmt.Sprintf("q%d", i), Back: fmt.Sprintf("a%d", i)}
	}
	cards, err := f.svc.AddCards(context.Background(), f.userID, input)
	require.NoError(t, err)
	return cards
}

func TestNewService_RequiresStore(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil, nil, Config{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestServiceError(t *testing.T) {
	t.Parallel()

	err := NewServiceError("start_session", "session cap reached", ErrTooManySessions)
	assert.Equal(t, "study start_session failed: session cap reached: too many active study sessions", err.Error())
	assert.ErrorIs(t, err, ErrTooManySessions)

	bare := NewServiceError("apply", "rejected", nil)
	assert.Equal(t, "study apply failed: rejected", bare.Error())
}

func TestAddCardsAndListTopics(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{})
	ctx := context.Background()

	f.addCards(t, "spanish", 2)
	f.addCards(t, "go", 1)

	topics, err := f.svc.ListTopics(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "spanish"}, topics)

	other, err := f.svc.ListTopics(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestAddCards_Validation(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{})
	ctx := context.Background()

	_, err := f.svc.AddCards(ctx, f.userID, nil)
	assert.ErrorIs(t, err, ErrNoCards)

	_, err = f.svc.AddCards(ctx, f.userID, []NewCard{
		{Topic: "go", Front: "ok", Back: "ok"},
		{Topic: "go", Front: "", Back: "missing front"},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrCardContentEmpty)

	var serviceErr *ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "add_cards", serviceErr.Operation)
	assert.Equal(t, 0, f.cards.Len(), "nothing is stored when one card is invalid")
}

func TestStartSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{})
	ctx := context.Background()
	f.addCards(t, "go", 3)

	view, err := f.svc.StartSession(ctx, f.userID, "go", session.ModeStandard)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, view.ID)
	assert.Equal(t, session.StateActive, view.State)
	assert.Equal(t, 3, view.Remaining)
	require.NotNil(t, view.Card)
	assert.Equal(t, 1, f.svc.SessionCount())

	got, err := f.svc.GetSession(ctx, f.userID, view.ID)
	require.NoError(t, err)
	assert.Equal(t, view.ID, got.ID)
	assert.Equal(t, view.Card.ID, got.Card.ID)
}

func TestStartSession_NothingToStudy(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{})

	_, err := f.svc.StartSession(context.Background(), f.userID, "empty", session.ModeQuiz)
	assert.ErrorIs(t, err, session.ErrNothingToStudy)
	assert.Equal(t, 0, f.svc.SessionCount(), "failed starts are not registered")
}

func TestStartSession_Cap(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{MaxSessions: 2, SessionTTL: time.Hour})
	ctx := context.Background()
	f.addCards(t, "go", 1)

	for i := 0; i < 2; i++ {
		_, err := f.svc.StartSession(ctx, f.userID, "go", session.ModeStandard)
		require.NoError(t, err)
	}

	_, err := f.svc.StartSession(ctx, f.userID, "go", session.ModeStandard)
	assert.ErrorIs(t, err, ErrTooManySessions)

	f.clock.Advance(2 * time.Hour)
	_, err = f.svc.StartSession(ctx, f.userID, "go", session.ModeStandard)
	require.NoError(t, err, "idle sessions are evicted before the cap is checked")
	assert.Equal(t, 1, f.svc.SessionCount())
}

func TestSessionOwnershipAndExpiry(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{SessionTTL: 30 * time.Minute})
	ctx := context.Background()
	f.addCards(t, "go", 2)

	view, err := f.svc.StartSession(ctx, f.userID, "go", session.ModeQuiz)
	require.NoError(t, err)

	_, err = f.svc.GetSession(ctx, uuid.New(), view.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound, "other users cannot see the session")

	f.clock.Advance(20 * time.Minute)
	_, err = f.svc.GetSession(ctx, f.userID, view.ID)
	require.NoError(t, err, "access refreshes the idle timer")

	f.clock.Advance(20 * time.Minute)
	_, err = f.svc.GetSession(ctx, f.userID, view.ID)
	require.NoError(t, err)

	f.clock.Advance(31 * time.Minute)
	_, err = f.svc.GetSession(ctx, f.userID, view.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, f.svc.SessionCount())
}

func TestApply_RatingEmitsAndPersistsViaEmitter(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{})
	ctx := context.Background()
	f.addCards(t, "go", 2)

	view, err := f.svc.StartSession(ctx, f.userID, "go", session.ModeStandard)
	require.NoError(t, err)

	view, err = f.svc.Apply(ctx, f.userID, view.ID, session.SubmitRatingCommand{Rating: domain.RatingAgain})
	require.NoError(t, err)
	assert.Equal(t, 2, view.Remaining)
	assert.Equal(t, 0, f.emitter.count(events.TypeCardRescheduled))

	view, err = f.svc.Apply(ctx, f.userID, view.ID, session.SubmitRatingCommand{Rating: domain.RatingEasy})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Remaining)
	assert.Equal(t, 1, f.emitter.count(events.TypeCardRescheduled))
}

func TestApply_RejectedCommandReturnsView(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{})
	ctx := context.Background()
	f.addCards(t, "go", 2)

	started, err := f.svc.StartSession(ctx, f.userID, "go", session.ModeQuiz)
	require.NoError(t, err)

	view, err := f.svc.Apply(ctx, f.userID, started.ID, session.SubmitRatingCommand{Rating: domain.RatingEasy})
	assert.ErrorIs(t, err, session.ErrWrongMode)
	require.NotNil(t, view)
	assert.Equal(t, started.Question.ID, view.Question.ID)

	_, err = f.svc.Apply(ctx, f.userID, uuid.New(), session.RestartCommand{})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestApply_ConcurrentCommandsAreSerialised(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{})
	ctx := context.Background()
	f.addCards(t, "go", 1)

	view, err := f.svc.StartSession(ctx, f.userID, "go", session.ModeStandard)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.Apply(ctx, f.userID, view.ID, session.SubmitRatingCommand{Rating: domain.RatingAgain})
		}()
	}
	wg.Wait()

	got, err := f.svc.GetSession(ctx, f.userID, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Remaining)
	assert.Equal(t, session.StateActive, got.State)
}

func TestEndSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{})
	ctx := context.Background()
	f.addCards(t, "go", 1)

	view, err := f.svc.StartSession(ctx, f.userID, "go", session.ModeStandard)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.EndSession(ctx, uuid.New(), view.ID), ErrSessionNotFound)
	require.NoError(t, f.svc.EndSession(ctx, f.userID, view.ID))
	assert.Equal(t, 0, f.svc.SessionCount())
	assert.ErrorIs(t, f.svc.EndSession(ctx, f.userID, view.ID), ErrSessionNotFound)
}

func TestPostponeCard(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{})
	ctx := context.Background()
	card := f.addCards(t, "go", 1)[0]

	postponed, err := f.svc.PostponeCard(ctx, f.userID, card.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, card.Memory, postponed.Memory)
	base := card.NextReview
	if base.Before(f.clock.Now()) {
		base = f.clock.Now()
	}
	assert.True(t, base.AddDate(0, 0, 3).Equal(postponed.NextReview))

	stored, err := f.cards.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.True(t, postponed.NextReview.Equal(stored.NextReview))

	t.Run("invalid days", func(t *testing.T) {
		_, err := f.svc.PostponeCard(ctx, f.userID, card.ID, 0)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("other user's card", func(t *testing.T) {
		_, err := f.svc.PostponeCard(ctx, uuid.New(), card.ID, 1)
		assert.ErrorIs(t, err, ErrCardNotOwned)
	})

	t.Run("unknown card", func(t *testing.T) {
		_, err := f.svc.PostponeCard(ctx, f.userID, uuid.New(), 1)
		assert.ErrorIs(t, err, store.ErrCardNotFound)
	})
}

func TestRunEviction_StopsWithContext(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{SessionTTL: time.Minute})
	f.addCards(t, "go", 1)
	_, err := f.svc.StartSession(context.Background(), f.userID, "go", session.ModeStandard)
	require.NoError(t, err)
	f.clock.Advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.svc.RunEviction(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return f.svc.SessionCount() == 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunEviction did not return after cancel")
	}
}

func TestListTopics_StoreError(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	svc, err := NewService(failingStore{err: boom}, nil, Config{}, nil)
	require.NoError(t, err)

	_, err = svc.ListTopics(context.Background(), uuid.New())
	assert.ErrorIs(t, err, boom)
}

type failingStore struct {
	store.CardStore
	err error
}

func (s failingStore) ListTopics(context.Context, uuid.UUID) ([]string, error) {
	return nil, s.err
}
