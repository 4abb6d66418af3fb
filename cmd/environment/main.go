package main

import (
	"context"
	"flag"
	"fmt"
	"sync"

	"github.com/gethiox/sensehat/internal/pkg/app"
	"github.com/gethiox/sensehat/internal/pkg/clock"
	"github.com/gethiox/sensehat/internal/pkg/display"
	"github.com/gethiox/sensehat/internal/pkg/logger"
	"github.com/gethiox/sensehat/internal/pkg/sensors"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

var interval = flag.Duration("interval", 0, "repeat the report with given pause, 0 prints it once")

func run(ctx context.Context, a *app.App) error {
	hat, err := sensors.Open(a.Config.Sensors)
	if err != nil {
		return err
	}
	defer hat.Close()

	wg := sync.WaitGroup{}
	dd := make(chan display.DisplayData, 1)
	defer wg.Wait()
	defer close(dd)

	if a.Config.Screen.Enabled {
		wg.Add(1)
		go display.HandleDisplay(&wg, a.Config.Screen, dd)
	} else {
		go func() {
			for range dd {
			}
		}()
	}

	for {
		reading, err := sensors.ReadEnvironment(ctx, hat)
		if err != nil {
			return fmt.Errorf("reading environment sensors failed: %w", err)
		}
		log.Info(fmt.Sprintf("%+v", reading), zap.String("sensor", "environment"), logger.Reading)

		err = sensors.WriteEnvironmentReport(a.Out, a.Au, reading)
		if err != nil {
			return err
		}
		dd <- display.DisplayData{Lines: reading.Lines()}

		if *interval <= 0 {
			return nil
		}
		err = clock.Real{}.Sleep(ctx, *interval)
		if err != nil {
			return err
		}
	}
}

func main() {
	app.Main(false, run)
}
