package session

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
)

// Command is one transition of the controller.
type Command interface {
	apply(ctx context.Context, c *Controller) error
}

// SelectTopicCommand starts a session on Topic in Mode.
type SelectTopicCommand struct {
	Topic string
	Mode  Mode
}

func (cmd SelectTopicCommand) apply(ctx context.Context, c *Controller) error {
	return c.SelectTopic(ctx, cmd.Topic, cmd.Mode)
}

// SubmitRatingCommand rates the current flashcard.
type SubmitRatingCommand struct {
	Rating domain.Rating
}

func (cmd SubmitRatingCommand) apply(ctx context.Context, c *Controller) error {
	return c.SubmitRating(ctx, cmd.Rating)
}

// SubmitAnswerCommand answers the quiz question instance QuestionID.
type SubmitAnswerCommand struct {
	QuestionID uuid.UUID
	Option     string
}

func (cmd SubmitAnswerCommand) apply(ctx context.Context, c *Controller) error {
	return c.SubmitAnswer(ctx, cmd.QuestionID, cmd.Option)
}

// SwitchModeCommand restarts the selected topic in Mode.
type SwitchModeCommand struct {
	Mode Mode
}

func (cmd SwitchModeCommand) apply(ctx context.Context, c *Controller) error {
	return c.SwitchMode(ctx, cmd.Mode)
}

// RestartCommand runs the same topic and mode again.
type RestartCommand struct{}

func (RestartCommand) apply(ctx context.Context, c *Controller) error {
	return c.Restart(ctx)
}

// ReturnToTopicsCommand goes back to topic selection.
type ReturnToTopicsCommand struct{}

func (ReturnToTopicsCommand) apply(_ context.Context, c *Controller) error {
	c.ReturnToTopics()
	return nil
}

// Apply runs cmd and returns the resulting snapshot. On error the controller
// is unchanged and the snapshot reflects the state before the command.
func (c *Controller) Apply(ctx context.Context, cmd Command) (Snapshot, error) {
	if cmd == nil {
		return c.Snapshot(), ErrUnknownCommand
	}
	err := cmd.apply(ctx, c)
	return c.Snapshot(), err
}
