package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/gethiox/sensehat/internal/pkg/app"
	"github.com/gethiox/sensehat/internal/pkg/clock"
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

	for {
		reading, err := sensors.ReadIMU(hat)
		if err != nil {
			return fmt.Errorf("reading IMU failed: %w", err)
		}
		log.Info(fmt.Sprintf("%+v", reading), zap.String("sensor", "imu"), logger.Reading)

		err = sensors.WriteIMUReport(a.Out, a.Au, reading)
		if err != nil {
			return err
		}

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
