package pcf8591

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/gethiox/sensehat/internal/pkg/clock"
	"github.com/gethiox/sensehat/internal/pkg/logger"
	"github.com/logrusorgru/aurora"
	"go.uber.org/zap"
)

// sineSteps is the number of DAC updates per sine period
const sineSteps = 628

// Square drives a rectangular wave between high and low (mV) until ctx is cancelled.
// duty is the share of the period spent high, in percent.
func (c *Converter) Square(ctx context.Context, sleeper clock.Sleeper, high, low int, period time.Duration, duty int) error {
	highTime := period * time.Duration(duty) / 100
	lowTime := period - highTime

	for {
		err := c.WriteVoltage(high)
		if err != nil {
			return err
		}
		err = sleeper.Sleep(ctx, highTime)
		if err != nil {
			return err
		}
		err = c.WriteVoltage(low)
		if err != nil {
			return err
		}
		err = sleeper.Sleep(ctx, lowTime)
		if err != nil {
			return err
		}
	}
}

// Sine drives a sine wave swinging between 0 and 2*peak (mV) until ctx is cancelled
func (c *Converter) Sine(ctx context.Context, sleeper clock.Sleeper, peak int, period time.Duration) error {
	step := period / sineSteps
	for {
		for i := 0; i < sineSteps; i++ {
			v := float64(peak) + float64(peak)*math.Sin(2*math.Pi*float64(i)/sineSteps)
			err := c.WriteVoltage(int(math.Round(v)))
			if err != nil {
				return err
			}
			err = sleeper.Sleep(ctx, step)
			if err != nil {
				return err
			}
		}
	}
}

// Follow copies half of the input on channel to the output every interval until ctx is cancelled
func (c *Converter) Follow(ctx context.Context, sleeper clock.Sleeper, channel int, interval time.Duration) error {
	for {
		v, err := c.Read(channel)
		if err != nil {
			return err
		}
		log.Info(fmt.Sprintf("A%d = 0x%02x", channel, v), zap.String("device", "PCF8591"), logger.Reading)

		err = c.Write(v / 2)
		if err != nil {
			return err
		}
		err = sleeper.Sleep(ctx, interval)
		if err != nil {
			return err
		}
	}
}

func WriteVoltageReport(w io.Writer, au aurora.Aurora, voltages [Channels]int) error {
	_, err := fmt.Fprintf(w, "%s\n", au.Bold(au.Cyan("Voltage on ADC:")))
	if err != nil {
		return err
	}
	for ch, v := range voltages {
		_, err = fmt.Fprintf(w, "> A%d --> %d mV\n", ch, v)
		if err != nil {
			return err
		}
	}
	return nil
}
