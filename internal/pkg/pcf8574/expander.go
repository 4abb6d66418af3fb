package pcf8574

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gethiox/sensehat/internal/pkg/clock"
	"github.com/gethiox/sensehat/internal/pkg/logger"
	"github.com/gethiox/sensehat/internal/pkg/sensors"
)

var log = logger.GetLogger()

var ErrBadPin = errors.New("pin has to be within 0..7")

// Config tells where the expander is and how the joy-it board is wired to it
type Config struct {
	Bus     int
	Address uint8
	LedPin  int
}

var DefaultConfig = Config{
	Bus:     1,
	Address: 0x20,
	LedPin:  4,
}

// Expander is a PCF8574 8-bit quasi-bidirectional port. A pin written high is weakly
// pulled up and works as an input, a pin written low sinks current.
type Expander struct {
	mu  sync.Mutex
	bus sensors.Stream
	out byte
}

// New releases every pin so all of them can be read
func New(bus sensors.Stream) (*Expander, error) {
	e := &Expander{bus: bus}
	err := e.Write(0xFF)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func Open(cfg Config) (*Expander, error) {
	bus, err := sensors.OpenStream(cfg.Address, cfg.Bus)
	if err != nil {
		return nil, err
	}
	e, err := New(bus)
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	log.Info(fmt.Sprintf("PCF8574 opened at 0x%02x on i2c-%d", cfg.Address, cfg.Bus), logger.Debug)
	return e, nil
}

// Read returns the pin levels
func (e *Expander) Read() (byte, error) {
	var buf [1]byte
	_, err := e.bus.ReadBytes(buf[:])
	if err != nil {
		return 0, fmt.Errorf("reading PCF8574 port failed: %w", err)
	}
	return buf[0], nil
}

func (e *Expander) Write(value byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.write(value)
}

func (e *Expander) write(value byte) error {
	_, err := e.bus.WriteBytes([]byte{value})
	if err != nil {
		return fmt.Errorf("writing PCF8574 port failed: %w", err)
	}
	e.out = value
	return nil
}

// SetOutput drives a single pin, active pulls it low and lights a LED wired to the supply
func (e *Expander) SetOutput(pin int, active bool) error {
	if pin < 0 || pin > 7 {
		return fmt.Errorf("%w: %d", ErrBadPin, pin)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	mask := byte(1) << pin
	value := e.out | mask
	if active {
		value = e.out &^ mask
	}
	return e.write(value)
}

// Blink toggles pin every interval until ctx is cancelled, the pin is left inactive
func (e *Expander) Blink(ctx context.Context, sleeper clock.Sleeper, pin int, interval time.Duration) error {
	defer e.SetOutput(pin, false)

	for active := true; ; active = !active {
		err := e.SetOutput(pin, active)
		if err != nil {
			return err
		}
		err = sleeper.Sleep(ctx, interval)
		if err != nil {
			return err
		}
	}
}

func (e *Expander) Close() error {
	return e.bus.Close()
}
