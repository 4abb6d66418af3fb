package grid

import (
	"context"
	"fmt"

	"github.com/gethiox/sensehat/internal/pkg/input"
	"github.com/gethiox/sensehat/internal/pkg/logger"
	"github.com/gethiox/sensehat/internal/pkg/matrix"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

var (
	Background = matrix.Black
	MarkColor  = matrix.Red
)

type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// InputSource blocks until the next joystick event
type InputSource interface {
	WaitForEvent(ctx context.Context) (input.Event, error)
}

// Surface receives complete frames
type Surface interface {
	SetPixels(pixels matrix.Pixels) error
}

// Grid moves a cursor over the 8x8 board and marks cells on demand.
// Marks are never removed.
type Grid struct {
	cursor Point
	marks  [matrix.Size]bool
}

func New() *Grid {
	return &Grid{}
}

func (g *Grid) Cursor() Point {
	return g.cursor
}

func (g *Grid) Marked(p Point) bool {
	if !matrix.InRange(p.X, p.Y) {
		return false
	}
	return g.marks[matrix.Index(p.X, p.Y)]
}

// Marks returns marked cells in row-major order
func (g *Grid) Marks() []Point {
	var points []Point
	for i, marked := range g.marks {
		if marked {
			points = append(points, Point{X: i % matrix.Width, Y: i / matrix.Width})
		}
	}
	return points
}

// HandleEvent applies a single joystick event, only presses have any effect
func (g *Grid) HandleEvent(ev input.Event) {
	if ev.Action != input.Pressed {
		return
	}

	switch ev.Direction {
	case input.Left:
		if g.cursor.X > 0 {
			g.cursor.X--
		}
	case input.Right:
		if g.cursor.X < matrix.Width-1 {
			g.cursor.X++
		}
	case input.Up:
		if g.cursor.Y > 0 {
			g.cursor.Y--
		}
	case input.Down:
		if g.cursor.Y < matrix.Height-1 {
			g.cursor.Y++
		}
	case input.Middle:
		g.marks[matrix.Index(g.cursor.X, g.cursor.Y)] = true
	}
}

// Render draws marks first and the cursor on top of them, the cursor is visible even on unmarked cells
func (g *Grid) Render() matrix.Pixels {
	pixels := matrix.Filled(Background)
	for i, marked := range g.marks {
		if marked {
			pixels[i] = MarkColor
		}
	}
	pixels.Set(g.cursor.X, g.cursor.Y, MarkColor)
	return pixels
}

// Run shows the initial frame and then processes events one by one, each event is followed by
// exactly one complete frame. It returns the first error of the source or the surface,
// cancellation of ctx is reported by the source.
func (g *Grid) Run(ctx context.Context, source InputSource, surface Surface) error {
	err := surface.SetPixels(g.Render())
	if err != nil {
		return fmt.Errorf("initial frame failed: %w", err)
	}

	for {
		ev, err := source.WaitForEvent(ctx)
		if err != nil {
			return err
		}
		log.Info(fmt.Sprintf("The joystick was %s %s", ev.Action, ev.Direction),
			zap.String("cursor", g.cursor.String()), logger.Event,
		)

		g.HandleEvent(ev)

		err = surface.SetPixels(g.Render())
		if err != nil {
			return fmt.Errorf("frame update failed: %w", err)
		}
	}
}
