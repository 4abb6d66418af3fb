package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/gethiox/sensehat/internal/pkg/app"
	"github.com/gethiox/sensehat/internal/pkg/clock"
	"github.com/gethiox/sensehat/internal/pkg/logger"
	"github.com/gethiox/sensehat/internal/pkg/pcf8591"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const (
	squareHigh   = 3000 // mV
	squareLow    = 1000 // mV
	squarePeriod = time.Millisecond
	squareDuty   = 50 // %

	sinePeak   = 1500 // mV
	sinePeriod = 100 * time.Millisecond

	followChannel  = 0
	followInterval = time.Millisecond
)

var (
	mode     = flag.String("mode", "adc", "adc: print input voltages, square: 1 kHz square wave, sine: 10 Hz sine wave, follow: output half of A0")
	interval = flag.Duration("interval", time.Second, "pause between voltage dumps")
)

func adc(ctx context.Context, a *app.App, c *pcf8591.Converter) error {
	for {
		voltages, err := c.ReadAll()
		if err != nil {
			return err
		}
		log.Info(fmt.Sprintf("%v", voltages), zap.String("device", "PCF8591"), logger.Reading)

		err = pcf8591.WriteVoltageReport(a.Out, a.Au, voltages)
		if err != nil {
			return err
		}
		err = clock.Real{}.Sleep(ctx, *interval)
		if err != nil {
			return err
		}
	}
}

func run(ctx context.Context, a *app.App) error {
	c, err := pcf8591.Open(a.Config.Converter)
	if err != nil {
		return fmt.Errorf("opening PCF8591 failed: %w", err)
	}
	defer c.Close()

	sleeper := clock.Real{}
	switch *mode {
	case "adc":
		return adc(ctx, a, c)
	case "square":
		return c.Square(ctx, sleeper, squareHigh, squareLow, squarePeriod, squareDuty)
	case "sine":
		return c.Sine(ctx, sleeper, sinePeak, sinePeriod)
	case "follow":
		err = c.Write(0)
		if err != nil {
			return err
		}
		return c.Follow(ctx, sleeper, followChannel, followInterval)
	default:
		return fmt.Errorf("unknown mode: %s", *mode)
	}
}

func main() {
	app.Main(false, run)
}
