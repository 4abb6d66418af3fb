package pcf8574

import (
	"context"
	"strings"
	"time"

	"github.com/gethiox/sensehat/internal/pkg/clock"
	"github.com/gethiox/sensehat/internal/pkg/input"
	"github.com/gethiox/sensehat/internal/pkg/logger"
	"go.uber.org/zap"
)

// DefaultPoll is the delay between two reads of an unchanged port
const DefaultPoll = 10 * time.Millisecond

// buttons of the joy-it joystick on the low nibble, a pressed button reads low
var buttons = []struct {
	bit       byte
	direction input.Direction
}{
	{0x02, input.Up},
	{0x04, input.Down},
	{0x01, input.Left},
	{0x08, input.Right},
}

const buttonMask = 0x0F

// Pressed returns the directions held down for a raw port value
func Pressed(port byte) []input.Direction {
	var directions []input.Direction
	for _, b := range buttons {
		if port&b.bit == 0 {
			directions = append(directions, b.direction)
		}
	}
	return directions
}

// Name labels a port value the way the board silkscreen does, eg. "UP-LEFT", empty when idle
func Name(port byte) string {
	var names []string
	for _, d := range Pressed(port) {
		names = append(names, strings.ToUpper(d.String()))
	}
	return strings.Join(names, "-")
}

// Joystick polls the expander and turns level changes into press and release events.
// The LED on ledPin is lit while any button is held, a negative pin disables it.
type Joystick struct {
	expander *Expander
	sleeper  clock.Sleeper
	poll     time.Duration
	ledPin   int

	held    byte // active high
	pending []input.Event
}

func NewJoystick(expander *Expander, sleeper clock.Sleeper, poll time.Duration, ledPin int) *Joystick {
	return &Joystick{
		expander: expander,
		sleeper:  sleeper,
		poll:     poll,
		ledPin:   ledPin,
	}
}

// WaitForEvent blocks until a button changes state or ctx is cancelled. Pressing two
// buttons at once (diagonals) yields two events.
func (j *Joystick) WaitForEvent(ctx context.Context) (input.Event, error) {
	for len(j.pending) == 0 {
		port, err := j.expander.Read()
		if err != nil {
			return input.Event{}, err
		}

		held := ^port & buttonMask
		if held == j.held {
			err = j.sleeper.Sleep(ctx, j.poll)
			if err != nil {
				return input.Event{}, err
			}
			continue
		}

		err = j.update(port, held)
		if err != nil {
			return input.Event{}, err
		}
	}

	ev := j.pending[0]
	j.pending = j.pending[1:]
	return ev, nil
}

func (j *Joystick) update(port, held byte) error {
	for _, b := range buttons {
		was, is := j.held&b.bit != 0, held&b.bit != 0
		switch {
		case is && !was:
			j.pending = append(j.pending, input.Event{Direction: b.direction, Action: input.Pressed})
		case was && !is:
			j.pending = append(j.pending, input.Event{Direction: b.direction, Action: input.Released})
		}
	}

	if held != 0 {
		log.Info(Name(port), zap.String("device", "PCF8574"), logger.Event)
	}

	lit := j.held != 0
	j.held = held
	if j.ledPin >= 0 && lit != (held != 0) {
		return j.expander.SetOutput(j.ledPin, held != 0)
	}
	return nil
}

// Close switches the LED off and releases the expander
func (j *Joystick) Close() error {
	if j.ledPin >= 0 {
		_ = j.expander.SetOutput(j.ledPin, false)
	}
	return j.expander.Close()
}
