package sensors

import (
	"errors"
	"fmt"

	"github.com/d2r2/go-i2c"
	shittyLogger "github.com/d2r2/go-logger"
	"github.com/gethiox/sensehat/internal/pkg/logger"
)

var log = logger.GetLogger()

var ErrWrongDevice = errors.New("unexpected WHO_AM_I value")

// Bus is a single I2C slave register window
type Bus interface {
	ReadRegU8(reg byte) (byte, error)
	WriteRegU8(reg byte, value byte) error
	Close() error
}

// Config tells where the Sense HAT chips are
type Config struct {
	Bus          int
	Humidity     uint8 // HTS221
	Pressure     uint8 // LPS25H
	IMU          uint8 // LSM9DS1 accelerometer and gyroscope
	Magnetometer uint8 // LSM9DS1 magnetometer
}

var DefaultConfig = Config{
	Bus:          1,
	Humidity:     0x5F,
	Pressure:     0x5C,
	IMU:          0x6A,
	Magnetometer: 0x1C,
}

// Stream is an I2C slave without a register map, every transfer goes straight to the chip
type Stream interface {
	ReadBytes(buf []byte) (int, error)
	WriteBytes(buf []byte) (int, error)
	Close() error
}

func open(addr uint8, bus int) (*i2c.I2C, error) {
	shittyLogger.ChangePackageLogLevel("i2c", shittyLogger.InfoLevel)

	raw, err := i2c.NewI2C(addr, bus)
	if err != nil {
		return nil, fmt.Errorf("opening i2c-%d device 0x%02x failed: %w", bus, addr, err)
	}
	return raw, nil
}

func OpenBus(addr uint8, bus int) (Bus, error) {
	raw, err := open(addr, bus)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// OpenStream opens chips like I/O expanders and converters that have no registers
func OpenStream(addr uint8, bus int) (Stream, error) {
	raw, err := open(addr, bus)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func checkWhoAmI(bus Bus, reg, expected byte) error {
	v, err := bus.ReadRegU8(reg)
	if err != nil {
		return fmt.Errorf("reading WHO_AM_I failed: %w", err)
	}
	if v != expected {
		return fmt.Errorf("%w: got 0x%02x, expected 0x%02x", ErrWrongDevice, v, expected)
	}
	return nil
}

// writeRegs writes register/value pairs in order
func writeRegs(bus Bus, pairs ...[2]byte) error {
	for _, p := range pairs {
		err := bus.WriteRegU8(p[0], p[1])
		if err != nil {
			return fmt.Errorf("writing register 0x%02x failed: %w", p[0], err)
		}
	}
	return nil
}

func readRegs(bus Bus, regs ...byte) ([]byte, error) {
	var out = make([]byte, len(regs))
	for i, reg := range regs {
		v, err := bus.ReadRegU8(reg)
		if err != nil {
			return nil, fmt.Errorf("reading register 0x%02x failed: %w", reg, err)
		}
		out[i] = v
	}
	return out, nil
}

func readS16(bus Bus, low, high byte) (int16, error) {
	b, err := readRegs(bus, low, high)
	if err != nil {
		return 0, err
	}
	return int16(uint16(b[1])<<8 | uint16(b[0])), nil
}

func closeAll(buses ...Bus) error {
	var errs []error
	for _, b := range buses {
		if b == nil {
			continue
		}
		err := b.Close()
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
