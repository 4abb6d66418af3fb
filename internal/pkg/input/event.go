package input

import (
	"fmt"

	"github.com/holoplot/go-evdev"
)

type Direction int
type Action int

const (
	Up Direction = iota
	Down
	Left
	Right
	Middle
)

const (
	Released Action = iota
	Pressed
	Held
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case Middle:
		return "middle"
	default:
		return "unknown"
	}
}

func (a Action) String() string {
	switch a {
	case Released:
		return "released"
	case Pressed:
		return "pressed"
	case Held:
		return "held"
	default:
		return "unknown"
	}
}

// Event is a single joystick movement
type Event struct {
	Direction Direction
	Action    Action
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Action, e.Direction)
}

var keyDirections = map[evdev.EvCode]Direction{
	evdev.KEY_UP:    Up,
	evdev.KEY_DOWN:  Down,
	evdev.KEY_LEFT:  Left,
	evdev.KEY_RIGHT: Right,
	evdev.KEY_ENTER: Middle,
}

// decodeEvent translates a raw evdev event, ok is false for everything that is not a joystick key
func decodeEvent(ev evdev.InputEvent) (Event, bool) {
	if ev.Type != evdev.EV_KEY {
		return Event{}, false
	}
	direction, ok := keyDirections[ev.Code]
	if !ok {
		return Event{}, false
	}

	var action Action
	switch ev.Value {
	case 0:
		action = Released
	case 1:
		action = Pressed
	case 2:
		action = Held
	default:
		return Event{}, false
	}

	return Event{Direction: direction, Action: action}, true
}
