package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/gethiox/sensehat/internal/pkg/app"
	"github.com/gethiox/sensehat/internal/pkg/grid"
	"github.com/gethiox/sensehat/internal/pkg/matrix"
)

var buttons = flag.Bool("buttons", false, "read the joy-it button joystick on the PCF8574 expander instead of the Sense HAT one")

func run(ctx context.Context, a *app.App) error {
	m, err := a.OpenMatrix()
	if err != nil {
		return fmt.Errorf("opening LED matrix failed: %w", err)
	}
	defer func() {
		_ = m.Clear(matrix.Black)
		_ = m.Close()
	}()

	var source app.EventSource
	if *buttons {
		source, err = a.OpenButtons()
	} else {
		source, err = a.OpenInput(ctx)
	}
	if err != nil {
		return fmt.Errorf("opening joystick failed: %w", err)
	}
	defer source.Close()

	return grid.New().Run(ctx, source, m)
}

func main() {
	app.Main(true, run)
}
