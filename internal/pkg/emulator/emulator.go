package emulator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/awesome-gocui/gocui"
	"github.com/gethiox/sensehat/internal/pkg/input"
	"github.com/gethiox/sensehat/internal/pkg/logger"
	"github.com/gethiox/sensehat/internal/pkg/matrix"
	"github.com/logrusorgru/aurora"
)

var log = logger.GetLogger()

const (
	ViewMatrix = "matrix"
	ViewLogs   = "logs"

	cellWidth   = 2 // terminal cells are roughly twice as tall as wide
	matrixWidth = matrix.Width*cellWidth + 1
)

var ErrClosed = errors.New("emulator closed")

// Emulator draws the LED matrix in a terminal and turns arrow keys and enter into joystick events
type Emulator struct {
	g  *gocui.Gui
	au aurora.Aurora

	mu     sync.Mutex
	frame  matrix.Pixels
	events chan input.Event
	done   chan struct{}
	once   sync.Once
}

func NewGui() (*gocui.Gui, error) {
	g, err := gocui.NewGui(gocui.Output256, true)
	if err != nil {
		return nil, err
	}
	g.SetManagerFunc(Layout)
	return g, nil
}

func Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if v, err := g.SetView(ViewMatrix, 0, 0, matrixWidth, matrix.Height+1, 0); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "[8x8]"
		v.Frame = true
		v.Wrap = false
	}

	if v, err := g.SetView(ViewLogs, matrixWidth+1, 0, maxX-1, maxY-1, 0); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "[Logs]"
		v.Autoscroll = true
		v.Wrap = false
		v.Frame = true
	}
	return nil
}

func New(g *gocui.Gui, au aurora.Aurora) (*Emulator, error) {
	e := &Emulator{
		g:      g,
		au:     au,
		events: make(chan input.Event, 16),
		done:   make(chan struct{}),
	}

	for key, direction := range map[gocui.Key]input.Direction{
		gocui.KeyArrowUp:    input.Up,
		gocui.KeyArrowDown:  input.Down,
		gocui.KeyArrowLeft:  input.Left,
		gocui.KeyArrowRight: input.Right,
		gocui.KeyEnter:      input.Middle,
	} {
		err := g.SetKeybinding("", key, gocui.ModNone, e.keyHandler(direction))
		if err != nil {
			return nil, err
		}
	}
	for _, key := range []interface{}{gocui.KeyCtrlC, 'q'} {
		err := g.SetKeybinding("", key, gocui.ModNone, quit)
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

// keyHandler emits a press immediately followed by a release, terminals do not report key-up
func (e *Emulator) keyHandler(d input.Direction) func(*gocui.Gui, *gocui.View) error {
	return func(*gocui.Gui, *gocui.View) error {
		for _, action := range []input.Action{input.Pressed, input.Released} {
			select {
			case e.events <- input.Event{Direction: d, Action: action}:
			default:
				log.Info("emulator event dropped", logger.Warning)
			}
		}
		return nil
	}
}

func (e *Emulator) WaitForEvent(ctx context.Context) (input.Event, error) {
	select {
	case <-ctx.Done():
		return input.Event{}, ctx.Err()
	case <-e.done:
		return input.Event{}, ErrClosed
	case ev := <-e.events:
		return ev, nil
	}
}

func (e *Emulator) Render(pixels matrix.Pixels) error {
	select {
	case <-e.done:
		return ErrClosed
	default:
	}

	e.mu.Lock()
	e.frame = pixels
	e.mu.Unlock()

	e.g.Update(e.draw)
	return nil
}

func (e *Emulator) draw(g *gocui.Gui) error {
	v, err := g.View(ViewMatrix)
	if err != nil {
		return nil // not laid out yet, next frame will catch up
	}
	e.mu.Lock()
	frame := e.frame
	e.mu.Unlock()

	v.Clear()
	fmt.Fprint(v, renderFrame(e.au, frame))
	return nil
}

func renderFrame(au aurora.Aurora, p matrix.Pixels) string {
	var b strings.Builder
	cell := strings.Repeat(" ", cellWidth)
	for y := 0; y < matrix.Height; y++ {
		for x := 0; x < matrix.Width; x++ {
			b.WriteString(au.BgIndex(nearest(p.At(x, y)), cell).String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Log appends a line to the log view
func (e *Emulator) Log(line string) {
	e.g.Update(func(g *gocui.Gui) error {
		v, err := g.View(ViewLogs)
		if err != nil {
			return nil
		}
		fmt.Fprintln(v, line)
		return nil
	})
}

// LogWidth returns the inner width of the log view, -1 before the view exists
func (e *Emulator) LogWidth() int {
	v, err := e.g.View(ViewLogs)
	if err != nil {
		return -1
	}
	x, _ := v.Size()
	return x
}

// Close stops event delivery and rendering, the gui itself is owned by the caller
func (e *Emulator) Close() error {
	e.once.Do(func() {
		close(e.done)
	})
	return nil
}
