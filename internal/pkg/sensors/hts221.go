package sensors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gethiox/sensehat/internal/pkg/clock"
)

// HTS221 humidity and temperature sensor registers
const (
	htsWhoAmI      = 0x0F
	htsWhoAmIValue = 0xBC

	htsCtrlReg1 = 0x20
	htsCtrlReg2 = 0x21

	htsHumidityOutL = 0x28
	htsHumidityOutH = 0x29
	htsTempOutL     = 0x2A
	htsTempOutH     = 0x2B

	htsH0rHx2    = 0x30
	htsH1rHx2    = 0x31
	htsT0degCx8  = 0x32
	htsT1degCx8  = 0x33
	htsT1T0msb   = 0x35
	htsH0T0OutL  = 0x36
	htsH0T0OutH  = 0x37
	htsH1T0OutL  = 0x3A
	htsH1T0OutH  = 0x3B
	htsT0OutL    = 0x3C
	htsT0OutH    = 0x3D
	htsT1OutL    = 0x3E
	htsT1OutH    = 0x3F
	htsPowerOn   = 0x84 // PD + BDU, one-shot mode
	htsOneShot   = 0x01
	htsPowerDown = 0x00
)

const (
	conversionPoll     = 25 * time.Millisecond
	conversionAttempts = 40
)

var ErrConversionTimeout = errors.New("one-shot conversion did not finish")

type HTS221 struct {
	bus     Bus
	sleeper clock.Sleeper
}

func NewHTS221(bus Bus, sleeper clock.Sleeper) *HTS221 {
	return &HTS221{bus: bus, sleeper: sleeper}
}

// waitOneShot polls the self-clearing one-shot bit
func waitOneShot(ctx context.Context, bus Bus, sleeper clock.Sleeper, reg byte) error {
	for i := 0; i < conversionAttempts; i++ {
		err := sleeper.Sleep(ctx, conversionPoll)
		if err != nil {
			return err
		}
		status, err := bus.ReadRegU8(reg)
		if err != nil {
			return fmt.Errorf("reading conversion status failed: %w", err)
		}
		if status&htsOneShot == 0 {
			return nil
		}
	}
	return ErrConversionTimeout
}

// line is the calibration straight line y = m*x + c
type line struct {
	m, c float64
}

func twoPoint(x0, y0, x1, y1 float64) line {
	m := (y1 - y0) / (x1 - x0)
	return line{m: m, c: y1 - m*x1}
}

func (l line) at(x float64) float64 {
	return l.m*x + l.c
}

// Measure runs a single conversion and returns relative humidity (%rH) and temperature (°C)
func (h *HTS221) Measure(ctx context.Context) (float64, float64, error) {
	err := checkWhoAmI(h.bus, htsWhoAmI, htsWhoAmIValue)
	if err != nil {
		return 0, 0, fmt.Errorf("HTS221: %w", err)
	}

	err = writeRegs(h.bus,
		[2]byte{htsCtrlReg1, htsPowerDown}, // clean start
		[2]byte{htsCtrlReg1, htsPowerOn},
		[2]byte{htsCtrlReg2, htsOneShot},
	)
	if err != nil {
		return 0, 0, fmt.Errorf("HTS221: %w", err)
	}
	defer h.bus.WriteRegU8(htsCtrlReg1, htsPowerDown)

	err = waitOneShot(ctx, h.bus, h.sleeper, htsCtrlReg2)
	if err != nil {
		return 0, 0, fmt.Errorf("HTS221: %w", err)
	}

	cal, err := readRegs(h.bus, htsT0degCx8, htsT1degCx8, htsT1T0msb, htsH0rHx2, htsH1rHx2)
	if err != nil {
		return 0, 0, fmt.Errorf("HTS221: %w", err)
	}
	t0DegC := float64(uint16(cal[2]&0x03)<<8|uint16(cal[0])) / 8.0
	t1DegC := float64(uint16(cal[2]&0x0C)>>2<<8|uint16(cal[1])) / 8.0
	h0rH := float64(cal[3]) / 2.0
	h1rH := float64(cal[4]) / 2.0

	var raw [6]int16
	for i, pair := range [][2]byte{
		{htsT0OutL, htsT0OutH},
		{htsT1OutL, htsT1OutH},
		{htsH0T0OutL, htsH0T0OutH},
		{htsH1T0OutL, htsH1T0OutH},
		{htsTempOutL, htsTempOutH},
		{htsHumidityOutL, htsHumidityOutH},
	} {
		raw[i], err = readS16(h.bus, pair[0], pair[1])
		if err != nil {
			return 0, 0, fmt.Errorf("HTS221: %w", err)
		}
	}
	t0Out, t1Out, h0Out, h1Out, tOut, hOut := raw[0], raw[1], raw[2], raw[3], raw[4], raw[5]

	temperature := twoPoint(float64(t0Out), t0DegC, float64(t1Out), t1DegC).at(float64(tOut))
	humidity := twoPoint(float64(h0Out), h0rH, float64(h1Out), h1rH).at(float64(hOut))

	return humidity, temperature, nil
}

func (h *HTS221) Humidity(ctx context.Context) (float64, error) {
	humidity, _, err := h.Measure(ctx)
	return humidity, err
}

func (h *HTS221) Temperature(ctx context.Context) (float64, error) {
	_, temperature, err := h.Measure(ctx)
	return temperature, err
}
