package pcf8591

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gethiox/sensehat/internal/pkg/logger"
	"github.com/gethiox/sensehat/internal/pkg/sensors"
)

var log = logger.GetLogger()

// control byte: bit 6 enables the analog output, bits 0-1 select the input channel,
// bits 4-5 stay zero for four single-ended inputs
const (
	controlOutput = 0x40

	Channels   = 4
	resolution = 255
)

var ErrBadChannel = errors.New("channel has to be within 0..3")

type Config struct {
	Bus     int
	Address uint8
	Vref    int // supply voltage in mV
}

var DefaultConfig = Config{
	Bus:     1,
	Address: 0x48,
	Vref:    3300,
}

// Converter is a PCF8591 with four 8-bit ADC inputs and one 8-bit DAC output
type Converter struct {
	mu   sync.Mutex
	bus  sensors.Stream
	vref int
}

func New(bus sensors.Stream, vref int) *Converter {
	return &Converter{bus: bus, vref: vref}
}

func Open(cfg Config) (*Converter, error) {
	bus, err := sensors.OpenStream(cfg.Address, cfg.Bus)
	if err != nil {
		return nil, err
	}
	log.Info(fmt.Sprintf("PCF8591 opened at 0x%02x on i2c-%d", cfg.Address, cfg.Bus), logger.Debug)
	return New(bus, cfg.Vref), nil
}

// Read returns the raw value of a single input. Selecting a channel starts a conversion,
// the first byte read back still holds the previous result and is skipped.
func (c *Converter) Read(channel int) (byte, error) {
	if channel < 0 || channel >= Channels {
		return 0, fmt.Errorf("%w: %d", ErrBadChannel, channel)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.bus.WriteBytes([]byte{controlOutput | byte(channel)})
	if err != nil {
		return 0, fmt.Errorf("selecting channel %d failed: %w", channel, err)
	}

	var buf [2]byte
	_, err = c.bus.ReadBytes(buf[:])
	if err != nil {
		return 0, fmt.Errorf("reading channel %d failed: %w", channel, err)
	}
	return buf[1], nil
}

// ReadVoltage returns the input voltage in mV
func (c *Converter) ReadVoltage(channel int) (int, error) {
	v, err := c.Read(channel)
	if err != nil {
		return 0, err
	}
	return int(v) * c.vref / resolution, nil
}

// ReadAll returns voltages of every input in mV
func (c *Converter) ReadAll() ([Channels]int, error) {
	var out [Channels]int
	for ch := range out {
		v, err := c.ReadVoltage(ch)
		if err != nil {
			return out, err
		}
		out[ch] = v
	}
	return out, nil
}

// Write sets the raw DAC value, the output holds it until the next write
func (c *Converter) Write(value byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.bus.WriteBytes([]byte{controlOutput, value})
	if err != nil {
		return fmt.Errorf("writing DAC failed: %w", err)
	}
	return nil
}

// WriteVoltage sets the output in mV, values outside 0..Vref are clamped
func (c *Converter) WriteVoltage(mv int) error {
	if mv < 0 {
		mv = 0
	}
	if mv > c.vref {
		mv = c.vref
	}
	return c.Write(byte(mv * resolution / c.vref))
}

func (c *Converter) Close() error {
	return c.bus.Close()
}
