package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"time"

	"github.com/gethiox/sensehat/internal/pkg/animation"
	"github.com/gethiox/sensehat/internal/pkg/app"
	"github.com/gethiox/sensehat/internal/pkg/clock"
	"github.com/gethiox/sensehat/internal/pkg/logger"
	"github.com/gethiox/sensehat/internal/pkg/matrix"
)

var log = logger.GetLogger()

//go:embed invader.yaml
var invader []byte

const (
	pause        = time.Second
	message      = "Hello World!"
	messageSpeed = 100 * time.Millisecond
	letter       = 'H'
)

var image = flag.String("image", "", "8x8 YAML image shown instead of the built-in sprite")

func sprite(m *matrix.Matrix) (matrix.Pixels, error) {
	if *image != "" {
		return m.LoadImage(*image)
	}
	pixels, err := matrix.ParseImage(invader)
	if err != nil {
		return matrix.Pixels{}, err
	}
	return pixels, m.SetPixels(pixels)
}

func run(ctx context.Context, a *app.App) error {
	m, err := a.OpenMatrix()
	if err != nil {
		return fmt.Errorf("opening LED matrix failed: %w", err)
	}
	defer func() {
		_ = m.Clear(matrix.Black)
		_ = m.Close()
	}()

	sleeper := clock.Real{}
	for _, step := range []struct {
		name string
		do   func() error
	}{
		{"clear", func() error { return m.Clear(matrix.Black) }},
		{"sprite", func() error { _, err := sprite(m); return err }},
		{"flip horizontal", func() error { _, err := m.FlipHorizontal(); return err }},
		{"flip vertical", func() error { _, err := m.FlipVertical(); return err }},
		{"clear white", func() error { return m.Clear(matrix.White) }},
		{"letter", func() error { return m.ShowLetter(letter, matrix.Red, matrix.White) }},
	} {
		log.Info(step.name, logger.Debug)
		err := step.do()
		if err != nil {
			return fmt.Errorf("%s failed: %w", step.name, err)
		}
		err = sleeper.Sleep(ctx, pause)
		if err != nil {
			return err
		}
	}

	err = m.ShowMessage(ctx, message, messageSpeed, matrix.Blue, matrix.Black)
	if err != nil {
		return err
	}

	return animation.New(m, sleeper).Run(ctx)
}

func main() {
	app.Main(true, run)
}
