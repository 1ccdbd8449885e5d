package playback

import (
	"errors"
	"fmt"
)

// Action is a user-level playback command.
type Action string

const (
	ActionNone    Action = ""
	ActionStart   Action = "start"
	ActionNext    Action = "next"
	ActionPrev    Action = "prev"
	ActionToggle  Action = "toggle"
	ActionRestart Action = "restart"
)

// SwipeThreshold is the horizontal drag distance, in pixels, past which a
// drag counts as navigation.
const SwipeThreshold = 50.0

var ErrUnknownAction = errors.New("playback: unknown action")

func ParseAction(name string) (Action, error) {
	switch a := Action(name); a {
	case ActionStart, ActionNext, ActionPrev, ActionToggle, ActionRestart:
		return a, nil
	default:
		return ActionNone, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
}

// KeyAction maps a DOM KeyboardEvent.key value to an action.
func KeyAction(key string) Action {
	switch key {
	case "ArrowRight":
		return ActionNext
	case "ArrowLeft":
		return ActionPrev
	case " ", "Space", "Spacebar":
		return ActionToggle
	default:
		return ActionNone
	}
}

// SwipeAction maps the horizontal offset of a finished drag. Dragging the
// slide to the right reveals the previous one.
func SwipeAction(dx float64) Action {
	switch {
	case dx > SwipeThreshold:
		return ActionPrev
	case dx < -SwipeThreshold:
		return ActionNext
	default:
		return ActionNone
	}
}

// TapAction maps a tap at x on a surface of the given width: the left
// quarter goes back, the right quarter goes forward.
func TapAction(x, width float64) Action {
	if width <= 0 {
		return ActionNone
	}
	switch {
	case x < width/4:
		return ActionPrev
	case x >= width*3/4:
		return ActionNext
	default:
		return ActionNone
	}
}

// Apply runs a named action. ActionNone is a no-op.
func (c *Controller) Apply(a Action) error {
	switch a {
	case ActionNone:
	case ActionStart:
		c.Start()
	case ActionNext:
		c.Advance()
	case ActionPrev:
		c.Retreat()
	case ActionToggle:
		c.TogglePlay()
	case ActionRestart:
		c.Restart()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a)
	}
	return nil
}
