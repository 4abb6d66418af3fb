package grid

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/gethiox/sensehat/internal/pkg/input"
	"github.com/gethiox/sensehat/internal/pkg/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(d input.Direction) input.Event {
	return input.Event{Direction: d, Action: input.Pressed}
}

func release(d input.Direction) input.Event {
	return input.Event{Direction: d, Action: input.Released}
}

type scriptedSource struct {
	events []input.Event
}

func (s *scriptedSource) WaitForEvent(ctx context.Context) (input.Event, error) {
	if len(s.events) == 0 {
		return input.Event{}, context.Canceled
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

type recordingSurface struct {
	frames []matrix.Pixels
	failAt int
}

func (s *recordingSurface) SetPixels(pixels matrix.Pixels) error {
	if s.failAt > 0 && len(s.frames)+1 == s.failAt {
		return errors.New("device unavailable")
	}
	s.frames = append(s.frames, pixels)
	return nil
}

func redCells(p matrix.Pixels) []Point {
	var points []Point
	for i, c := range p {
		if c == MarkColor {
			points = append(points, Point{X: i % 8, Y: i / 8})
		}
	}
	return points
}

func TestInitialState(t *testing.T) {
	g := New()
	assert.Equal(t, Point{0, 0}, g.Cursor())
	assert.Len(t, g.Marks(), 0)
	assert.Equal(t, []Point{{0, 0}}, redCells(g.Render()))
}

func TestScenario(t *testing.T) {
	g := New()
	for _, ev := range []input.Event{press(input.Right), press(input.Right), press(input.Down), press(input.Middle)} {
		g.HandleEvent(ev)
	}

	assert.Equal(t, Point{2, 1}, g.Cursor())
	assert.Equal(t, []Point{{2, 1}}, g.Marks())

	frame := g.Render()
	assert.Equal(t, []Point{{2, 1}}, redCells(frame))
	assert.Equal(t, matrix.Black, frame.At(0, 0))
}

func TestClamping(t *testing.T) {
	for i, tc := range []struct {
		events   []input.Event
		expected Point
	}{
		{events: []input.Event{press(input.Left)}, expected: Point{0, 0}},
		{events: []input.Event{press(input.Up)}, expected: Point{0, 0}},
		{events: repeat(press(input.Right), 10), expected: Point{7, 0}},
		{events: repeat(press(input.Down), 10), expected: Point{0, 7}},
		{events: append(repeat(press(input.Down), 9), press(input.Up)), expected: Point{0, 6}},
	} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			g := New()
			for _, ev := range tc.events {
				g.HandleEvent(ev)
			}
			assert.Equal(t, tc.expected, g.Cursor())
		})
	}
}

func repeat(ev input.Event, n int) []input.Event {
	var events []input.Event
	for i := 0; i < n; i++ {
		events = append(events, ev)
	}
	return events
}

func TestRandomWalkStaysInside(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	g := New()
	directions := []input.Direction{input.Up, input.Down, input.Left, input.Right, input.Middle}
	actions := []input.Action{input.Pressed, input.Released, input.Held}

	for i := 0; i < 5000; i++ {
		g.HandleEvent(input.Event{
			Direction: directions[r.Intn(len(directions))],
			Action:    actions[r.Intn(len(actions))],
		})
		c := g.Cursor()
		require.True(t, c.X >= 0 && c.X <= 7 && c.Y >= 0 && c.Y <= 7, "cursor escaped: %s", c)
	}
}

func TestNonPressIgnored(t *testing.T) {
	g := New()
	g.HandleEvent(release(input.Right))
	g.HandleEvent(input.Event{Direction: input.Down, Action: input.Held})
	g.HandleEvent(release(input.Middle))

	assert.Equal(t, Point{0, 0}, g.Cursor())
	assert.Len(t, g.Marks(), 0)
}

func TestMarkIdempotent(t *testing.T) {
	g := New()
	g.HandleEvent(press(input.Right))
	g.HandleEvent(press(input.Middle))
	g.HandleEvent(press(input.Middle))
	g.HandleEvent(press(input.Middle))

	assert.Equal(t, []Point{{1, 0}}, g.Marks())
	assert.True(t, g.Marked(Point{1, 0}))
	assert.False(t, g.Marked(Point{0, 0}))
	assert.False(t, g.Marked(Point{9, 0}))
}

func TestMarksPersistAfterCursorLeaves(t *testing.T) {
	g := New()
	g.HandleEvent(press(input.Middle))
	g.HandleEvent(press(input.Down))
	g.HandleEvent(press(input.Right))
	g.HandleEvent(press(input.Middle))
	g.HandleEvent(press(input.Right))

	assert.Equal(t, Point{2, 1}, g.Cursor())
	assert.Equal(t, []Point{{0, 0}, {1, 1}, {2, 1}}, redCells(g.Render()))
}

func TestRun(t *testing.T) {
	source := &scriptedSource{events: []input.Event{
		press(input.Right), release(input.Right),
		press(input.Right), release(input.Right),
		press(input.Down), release(input.Down),
		press(input.Middle), release(input.Middle),
	}}
	surface := &recordingSurface{}
	g := New()

	err := g.Run(context.Background(), source, surface)
	assert.ErrorIs(t, err, context.Canceled)

	// initial frame plus one per event
	require.Len(t, surface.frames, 9)
	assert.Equal(t, []Point{{0, 0}}, redCells(surface.frames[0]))
	assert.Equal(t, []Point{{1, 0}}, redCells(surface.frames[1]))
	assert.Equal(t, []Point{{2, 1}}, redCells(surface.frames[8]))
	assert.Equal(t, Point{2, 1}, g.Cursor())
	assert.Equal(t, []Point{{2, 1}}, g.Marks())
}

func TestRunEveryFrameIsFresh(t *testing.T) {
	events := []input.Event{press(input.Middle), press(input.Right), press(input.Middle), press(input.Down)}
	source := &scriptedSource{events: events}
	surface := &recordingSurface{}
	g := New()
	_ = g.Run(context.Background(), source, surface)

	replay := New()
	for i, ev := range events {
		replay.HandleEvent(ev)
		assert.Equal(t, replay.Render(), surface.frames[i+1], "frame after event %d", i)
	}
}

func TestRunSurfaceError(t *testing.T) {
	source := &scriptedSource{events: []input.Event{press(input.Right), press(input.Right)}}
	surface := &recordingSurface{failAt: 2}

	err := New().Run(context.Background(), source, surface)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, context.Canceled)
	assert.Len(t, surface.frames, 1)

	surface = &recordingSurface{failAt: 1}
	err = New().Run(context.Background(), source, surface)
	assert.Error(t, err)
	assert.Len(t, surface.frames, 0)
}
