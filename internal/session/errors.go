package session

import "errors"

// Errors returned by the controller
var (
	// ErrNoTopic is returned when a command needs a selected topic and none is.
	ErrNoTopic = errors.New("no topic selected")

	// ErrNotActive is returned when a command needs an active session.
	ErrNotActive = errors.New("session is not active")

	// ErrWrongMode is returned for a rating in quiz mode or an answer in a flashcard mode.
	ErrWrongMode = errors.New("command does not apply to the current mode")

	// ErrNothingToStudy is returned when the selected topic has no cards.
	ErrNothingToStudy = errors.New("nothing to study")

	// ErrInvalidMode is returned for an unknown mode name.
	ErrInvalidMode = errors.New("invalid mode")

	// ErrTopicAlreadySelected is returned by SelectTopic outside topic selection.
	ErrTopicAlreadySelected = errors.New("a topic is already selected")

	// ErrUnknownCommand is returned by Apply for a nil command.
	ErrUnknownCommand = errors.New("unknown command")
)
