package animation

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/gethiox/sensehat/internal/pkg/clock"
	"github.com/gethiox/sensehat/internal/pkg/logger"
	"github.com/gethiox/sensehat/internal/pkg/matrix"
)

var log = logger.GetLogger()

type Mode int

const (
	Fill Mode = iota
	Diagonal
)

func (m Mode) String() string {
	switch m {
	case Fill:
		return "fill"
	case Diagonal:
		return "diagonal"
	default:
		return "unknown"
	}
}

const (
	FillDelay     = 50 * time.Millisecond  // after every pixel
	DiagonalDelay = 100 * time.Millisecond // after every "L" ring
)

var Palette = [3]color.RGBA{matrix.Red, matrix.Green, matrix.Blue}

// Surface is written pixel by pixel
type Surface interface {
	SetPixel(x, y int, c color.RGBA) error
}

// Animator cycles red, green and blue over the matrix, after every full colour cycle
// it switches between raster fill and nested diagonal "L" shapes.
type Animator struct {
	surface Surface
	sleeper clock.Sleeper

	colorIndex int
	mode       Mode
}

func New(surface Surface, sleeper clock.Sleeper) *Animator {
	return &Animator{
		surface: surface,
		sleeper: sleeper,
		mode:    Fill,
	}
}

func (a *Animator) State() (colorIndex int, mode Mode) {
	return a.colorIndex, a.mode
}

func (a *Animator) Color() color.RGBA {
	return Palette[a.colorIndex]
}

// Pass renders one complete pass in the current state and advances to the next one
func (a *Animator) Pass(ctx context.Context) error {
	var err error
	switch a.mode {
	case Fill:
		err = a.fill(ctx, a.Color())
	case Diagonal:
		err = a.diagonal(ctx, a.Color())
	}
	if err != nil {
		return err
	}
	a.advance()
	return nil
}

func (a *Animator) advance() {
	a.colorIndex = (a.colorIndex + 1) % len(Palette)
	if a.colorIndex == 0 {
		if a.mode == Fill {
			a.mode = Diagonal
		} else {
			a.mode = Fill
		}
		log.Info(fmt.Sprintf("animation mode switched to %s", a.mode), logger.Debug)
	}
}

// fill paints cells column by column, x outer and y inner
func (a *Animator) fill(ctx context.Context, c color.RGBA) error {
	for x := 0; x < matrix.Width; x++ {
		for y := 0; y < matrix.Height; y++ {
			err := a.surface.SetPixel(x, y, c)
			if err != nil {
				return err
			}
			err = a.sleeper.Sleep(ctx, FillDelay)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// diagonal grows the painted square from the top-left corner one "L" ring at a time
func (a *Animator) diagonal(ctx context.Context, c color.RGBA) error {
	err := a.surface.SetPixel(0, 0, c)
	if err != nil {
		return err
	}

	for i := 1; i < matrix.Width; i++ {
		for j := 0; j < i; j++ {
			err = a.surface.SetPixel(i, j, c)
			if err != nil {
				return err
			}
			err = a.surface.SetPixel(j, i, c)
			if err != nil {
				return err
			}
		}
		err = a.surface.SetPixel(i, i, c)
		if err != nil {
			return err
		}
		err = a.sleeper.Sleep(ctx, DiagonalDelay)
		if err != nil {
			return err
		}
	}
	return nil
}

// Run renders passes until the surface fails or ctx is cancelled
func (a *Animator) Run(ctx context.Context) error {
	log.Info("animation started", logger.Debug)
	for {
		err := a.Pass(ctx)
		if err != nil {
			return err
		}
	}
}
