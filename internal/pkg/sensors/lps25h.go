package sensors

import (
	"context"
	"fmt"

	"github.com/gethiox/sensehat/internal/pkg/clock"
)

// LPS25H pressure and temperature sensor registers
const (
	lpsWhoAmI      = 0x0F
	lpsWhoAmIValue = 0xBD

	lpsCtrlReg1 = 0x20
	lpsCtrlReg2 = 0x21

	lpsPressOutXL = 0x28
	lpsPressOutL  = 0x29
	lpsPressOutH  = 0x2A
	lpsTempOutL   = 0x2B
	lpsTempOutH   = 0x2C

	lpsPowerOn   = 0x84 // PD + BDU, one-shot mode
	lpsOneShot   = 0x01
	lpsPowerDown = 0x00
)

const (
	pressureScale       = 4096.0 // LSB per hPa
	temperatureOffset   = 42.5
	temperatureScaleLPS = 480.0 // LSB per °C
)

type LPS25H struct {
	bus     Bus
	sleeper clock.Sleeper
}

func NewLPS25H(bus Bus, sleeper clock.Sleeper) *LPS25H {
	return &LPS25H{bus: bus, sleeper: sleeper}
}

// Measure runs a single conversion and returns pressure (hPa) and temperature (°C)
func (l *LPS25H) Measure(ctx context.Context) (float64, float64, error) {
	err := checkWhoAmI(l.bus, lpsWhoAmI, lpsWhoAmIValue)
	if err != nil {
		return 0, 0, fmt.Errorf("LPS25H: %w", err)
	}

	err = writeRegs(l.bus,
		[2]byte{lpsCtrlReg1, lpsPowerDown},
		[2]byte{lpsCtrlReg1, lpsPowerOn},
		[2]byte{lpsCtrlReg2, lpsOneShot},
	)
	if err != nil {
		return 0, 0, fmt.Errorf("LPS25H: %w", err)
	}
	defer l.bus.WriteRegU8(lpsCtrlReg1, lpsPowerDown)

	err = waitOneShot(ctx, l.bus, l.sleeper, lpsCtrlReg2)
	if err != nil {
		return 0, 0, fmt.Errorf("LPS25H: %w", err)
	}

	p, err := readRegs(l.bus, lpsPressOutXL, lpsPressOutL, lpsPressOutH)
	if err != nil {
		return 0, 0, fmt.Errorf("LPS25H: %w", err)
	}
	// 24-bit two's complement, sign-extended through the top byte
	raw := int32(uint32(p[2])<<24|uint32(p[1])<<16|uint32(p[0])<<8) >> 8

	t, err := readS16(l.bus, lpsTempOutL, lpsTempOutH)
	if err != nil {
		return 0, 0, fmt.Errorf("LPS25H: %w", err)
	}

	pressure := float64(raw) / pressureScale
	temperature := temperatureOffset + float64(t)/temperatureScaleLPS
	return pressure, temperature, nil
}

func (l *LPS25H) Pressure(ctx context.Context) (float64, error) {
	pressure, _, err := l.Measure(ctx)
	return pressure, err
}

func (l *LPS25H) Temperature(ctx context.Context) (float64, error) {
	_, temperature, err := l.Measure(ctx)
	return temperature, err
}
