package input

import (
	"context"
	"errors"
	"fmt"

	"github.com/gethiox/sensehat/internal/pkg/logger"
	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const (
	JoystickName = "Raspberry Pi Sense HAT Joystick"

	inputDir = "/dev/input"
)

var (
	ErrNotFound = errors.New("input handler not found")
	ErrClosed   = errors.New("joystick closed")
)

// Joystick reads the five-way Sense HAT stick through its evdev handler
type Joystick struct {
	info   DeviceInfo
	dev    *evdev.InputDevice
	grab   bool
	events chan Event
	done   chan struct{}
	err    error // valid once events is closed
}

// OpenJoystick opens the handler described by info and starts reading events right away
func OpenJoystick(info DeviceInfo, grab bool) (*Joystick, error) {
	dev, err := evdev.Open(info.EventPath())
	if err != nil {
		return nil, fmt.Errorf("opening handler failed: %w", err)
	}

	j := &Joystick{
		info:   info,
		dev:    dev,
		grab:   grab,
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}

	if grab {
		err = dev.Grab()
		if err != nil {
			log.Info(fmt.Sprintf("grabbing joystick failed: %v", err), zap.String("handler_event", info.Event()), logger.Warning)
		} else {
			log.Info("Grabbing device for exclusive usage", zap.String("handler_event", info.Event()), logger.Debug)
		}
	}

	go j.read()
	return j, nil
}

func (j *Joystick) read() {
	defer close(j.events)
	event := j.info.Event()

	log.Info("Reading input events", zap.String("handler_event", event), zap.String("handler_name", j.info.Name), logger.Debug)
	for {
		raw, err := j.dev.ReadOne()
		if err != nil {
			select {
			case <-j.done:
				j.err = ErrClosed
			default:
				j.err = fmt.Errorf("reading joystick event failed: %w", err)
			}
			break
		}

		ev, ok := decodeEvent(*raw)
		if !ok {
			continue
		}

		select {
		case j.events <- ev:
		case <-j.done:
			j.err = ErrClosed
			log.Info("Reading input events finished", zap.String("handler_event", event), logger.Debug)
			return
		}
	}
	log.Info("Reading input events finished", zap.String("handler_event", event), logger.Debug)
}

// WaitForEvent blocks until the next joystick event or ctx cancellation
func (j *Joystick) WaitForEvent(ctx context.Context) (Event, error) {
	select {
	case <-ctx.Done():
		return Event{}, ctx.Err()
	case ev, ok := <-j.events:
		if !ok {
			return Event{}, j.err
		}
		return ev, nil
	}
}

func (j *Joystick) Info() DeviceInfo {
	return j.info
}

func (j *Joystick) Close() error {
	select {
	case <-j.done:
		return nil
	default:
	}
	close(j.done)

	if j.grab {
		log.Info("Ungrabbing device", zap.String("handler_event", j.info.Event()), logger.Debug)
		_ = j.dev.Ungrab()
	}
	return j.dev.Close()
}
