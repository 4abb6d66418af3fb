package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/gethiox/sensehat/internal/pkg/app"
	"github.com/gethiox/sensehat/internal/pkg/clock"
	"github.com/gethiox/sensehat/internal/pkg/logger"
	"github.com/gethiox/sensehat/internal/pkg/pcf8574"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

var (
	mode     = flag.String("mode", "joystick", "read: dump the port, blink: toggle the LED, joystick: print pressed directions")
	interval = flag.Duration("interval", time.Second, "pause between port dumps and LED toggles")
)

func read(ctx context.Context, a *app.App, e *pcf8574.Expander) error {
	for {
		port, err := e.Read()
		if err != nil {
			return err
		}
		log.Info(fmt.Sprintf("0x%02x", port), zap.String("device", "PCF8574"), logger.Reading)

		err = pcf8574.WriteReport(a.Out, a.Au, port)
		if err != nil {
			return err
		}
		err = clock.Real{}.Sleep(ctx, *interval)
		if err != nil {
			return err
		}
	}
}

func joystick(ctx context.Context, a *app.App, e *pcf8574.Expander) error {
	pin := a.Config.Expander.LedPin
	if pin >= 0 {
		defer e.SetOutput(pin, false)
	}

	j := pcf8574.NewJoystick(e, clock.Real{}, pcf8574.DefaultPoll, pin)
	for {
		ev, err := j.WaitForEvent(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.Out, a.Au.Bold(ev.String()))
		if err != nil {
			return err
		}
	}
}

func run(ctx context.Context, a *app.App) error {
	e, err := pcf8574.Open(a.Config.Expander)
	if err != nil {
		return fmt.Errorf("opening PCF8574 failed: %w", err)
	}
	defer e.Close()

	switch *mode {
	case "read":
		return read(ctx, a, e)
	case "blink":
		if a.Config.Expander.LedPin < 0 {
			return errors.New("blinking needs [expander] led_pin")
		}
		return e.Blink(ctx, clock.Real{}, a.Config.Expander.LedPin, *interval)
	case "joystick":
		return joystick(ctx, a, e)
	default:
		return fmt.Errorf("unknown mode: %s", *mode)
	}
}

func main() {
	app.Main(false, run)
}
