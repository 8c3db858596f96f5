// Package session implements the study session controller: the state
// machine that owns the active mode for one learner and one topic, routes
// ratings to the flashcard queue and answers to the quiz, and reports
// progress and score.
//
// A Controller is not safe for concurrent use. Callers that share one across
// goroutines serialise access themselves.
//
// Recalled flashcards are rescheduled and a card_rescheduled event is
// emitted for storage. The controller never waits on, or learns the outcome
// of, the write that follows.
package session
