package jengaprotocol

import (
	"context"
	"fmt"
	"time"
)

// RemoveAction names the piece to pull out of the tower.
type RemoveAction struct {
	Level int
	Color Color
}

// String implements fmt.Stringer.
func (a RemoveAction) String() string {
	return fmt.Sprintf("level %d %s", a.Level, a.Color.Name())
}

// Step removes a piece, waits settle for the physics to play out, then
// reports where the host saved its screenshot and whether the tower fell.
// The wait blocks the calling goroutine.
func (c *Client) Step(action RemoveAction, settle time.Duration) (screenshot string, fallen bool, err error) {
	return c.StepWithContext(context.Background(), action, settle)
}

// StepWithContext is Step with a cancellable settle period.
//
// The order is fixed: remove, settle, isfallen, screenshot lookup. Any
// failure aborts the rest of the sequence and nothing is undone, so an error
// after the remove was sent means the tower has already changed.
func (c *Client) StepWithContext(ctx context.Context, action RemoveAction, settle time.Duration) (screenshot string, fallen bool, err error) {
	log := c.logger.Sugar().With("action", action.String())

	if _, err := c.SendWithContext(ctx, NewRemoveCommand(action.Level, action.Color)); err != nil {
		log.Warnw("remove failed", "error", err)
		return "", false, err
	}

	if err := c.wait(ctx, settle); err != nil {
		return "", false, err
	}

	fallen, err = c.isFallen(ctx)
	if err != nil {
		log.Warnw("fallen query failed", "error", err)
		return "", false, err
	}

	screenshot, err = c.resolver.Resolve()
	if err != nil {
		log.Warnw("screenshot lookup failed after remove", "fallen", fallen, "error", err)
		return "", false, err
	}

	log.Debugw("step completed", "fallen", fallen, "screenshot", screenshot, "settle", settle)
	return screenshot, fallen, nil
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
