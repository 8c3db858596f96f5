package session

import (
	"fmt"
	"strings"

	"github.com/phrazzld/scry-study/internal/review"
)

// Mode is the kind of session being run.
type Mode string

// Supported modes
const (
	ModeStandard Mode = "standard"
	ModeMixed    Mode = "mixed"
	ModeQuiz     Mode = "quiz"
)

// ParseMode converts a case-insensitive mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
	return m, nil
}

// IsValid reports whether m is a supported mode.
func (m Mode) IsValid() bool {
	switch m {
	case ModeStandard, ModeMixed, ModeQuiz:
		return true
	default:
		return false
	}
}

// IsFlashcard reports whether m is driven by ratings rather than answers.
func (m Mode) IsFlashcard() bool {
	return m == ModeStandard || m == ModeMixed
}

func (m Mode) orientation() review.Orientation {
	if m == ModeMixed {
		return review.Mixed
	}
	return review.Standard
}

// State is a controller state.
type State string

// Controller states
const (
	StateTopicSelection State = "topic_selection"
	StateActive         State = "active"
	StateFinished       State = "finished"
)
