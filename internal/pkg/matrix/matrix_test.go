package matrix

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gethiox/sensehat/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDevice struct {
	frames []Pixels
	closed bool
}

func (d *recordingDevice) Render(pixels Pixels) error {
	d.frames = append(d.frames, pixels)
	return nil
}

func (d *recordingDevice) Close() error {
	d.closed = true
	return nil
}

func (d *recordingDevice) last() Pixels {
	return d.frames[len(d.frames)-1]
}

func countColor(p Pixels, c color.RGBA) int {
	var n int
	for _, v := range p {
		if v == c {
			n++
		}
	}
	return n
}

type readableDevice struct {
	recordingDevice
	current Pixels
	err     error
}

func (d *readableDevice) Read() (Pixels, error) {
	return d.current, d.err
}

func TestNewKeepsCurrentFrame(t *testing.T) {
	dev := &readableDevice{current: Filled(Green)}
	dev.current.Set(2, 3, Blue)

	m := New(dev, &clock.Recorder{})
	assert.Equal(t, dev.current, m.GetPixels())
	assert.Empty(t, dev.frames)

	require.NoError(t, m.SetPixel(0, 0, Red))
	assert.Equal(t, Blue, dev.last()[Index(2, 3)])
	assert.Equal(t, 62, countColor(dev.last(), Green))

	dev = &readableDevice{current: Filled(Green), err: os.ErrPermission}
	m = New(dev, &clock.Recorder{})
	assert.Equal(t, Filled(Black), m.GetPixels())
}

func TestSetGetPixel(t *testing.T) {
	dev := &recordingDevice{}
	m := New(dev, &clock.Recorder{})

	assert.NoError(t, m.SetPixel(1, 1, Red))
	c, err := m.GetPixel(1, 1)
	assert.NoError(t, err)
	assert.Equal(t, Red, c)
	assert.Equal(t, Red, dev.last()[Index(1, 1)])
	assert.Equal(t, 63, countColor(dev.last(), Black))

	for _, tc := range [][2]int{{-1, 0}, {8, 0}, {0, -1}, {0, 8}} {
		assert.ErrorIs(t, m.SetPixel(tc[0], tc[1], Red), ErrOutOfRange)
		_, err := m.GetPixel(tc[0], tc[1])
		assert.ErrorIs(t, err, ErrOutOfRange)
	}
	assert.Len(t, dev.frames, 1)
}

func TestClearAndClose(t *testing.T) {
	dev := &recordingDevice{}
	m := New(dev, &clock.Recorder{})

	assert.NoError(t, m.Clear(White))
	assert.Equal(t, Filled(White), dev.last())
	assert.Equal(t, Filled(White), m.GetPixels())

	assert.NoError(t, m.Close())
	assert.True(t, dev.closed)
}

func TestFlip(t *testing.T) {
	dev := &recordingDevice{}
	m := New(dev, &clock.Recorder{})
	require.NoError(t, m.SetPixel(0, 2, Blue))

	flipped, err := m.FlipHorizontal()
	assert.NoError(t, err)
	assert.Equal(t, Blue, flipped.At(7, 2))
	assert.Equal(t, Black, flipped.At(0, 2))
	assert.Equal(t, flipped, dev.last())

	flipped, err = m.FlipVertical()
	assert.NoError(t, err)
	assert.Equal(t, Blue, flipped.At(7, 5))
	assert.Equal(t, 63, countColor(flipped, Black))
}

func TestRotation(t *testing.T) {
	for _, tc := range []struct {
		rotation int
		x, y     int
	}{
		{rotation: 0, x: 0, y: 0},
		{rotation: 90, x: 7, y: 0},
		{rotation: 180, x: 7, y: 7},
		{rotation: 270, x: 0, y: 7},
	} {
		dev := &recordingDevice{}
		m := New(dev, &clock.Recorder{})
		require.NoError(t, m.SetRotation(tc.rotation))
		require.NoError(t, m.SetPixel(0, 0, Red))

		assert.Equal(t, Red, dev.last().At(tc.x, tc.y), "rotation %d", tc.rotation)
		// logical frame is not affected
		assert.Equal(t, Red, m.GetPixels().At(0, 0))
	}

	m := New(&recordingDevice{}, &clock.Recorder{})
	assert.ErrorIs(t, m.SetRotation(45), ErrBadRotation)
	assert.Equal(t, 0, m.Rotation())
}

func TestShowLetter(t *testing.T) {
	dev := &recordingDevice{}
	m := New(dev, &clock.Recorder{})

	assert.NoError(t, m.ShowLetter('H', Red, White))
	frame := dev.last()
	assert.Greater(t, countColor(frame, Red), 0)
	assert.Equal(t, Size, countColor(frame, Red)+countColor(frame, White))
}

func TestShowMessage(t *testing.T) {
	dev := &recordingDevice{}
	sleeper := &clock.Recorder{}
	m := New(dev, sleeper)

	err := m.ShowMessage(context.Background(), "Hi", 100*time.Millisecond, Blue, Black)
	assert.NoError(t, err)

	columns := Width + textWidth("Hi") + Width
	assert.Len(t, dev.frames, columns-Width+1)
	assert.Len(t, sleeper.Sleeps, len(dev.frames))
	assert.Equal(t, 100*time.Millisecond, sleeper.Sleeps[0])

	assert.Equal(t, Filled(Black), dev.frames[0])
	assert.Equal(t, Filled(Black), dev.last())

	var lit bool
	for _, f := range dev.frames {
		if countColor(f, Blue) > 0 {
			lit = true
			break
		}
	}
	assert.True(t, lit)
}

func TestShowMessageCancelled(t *testing.T) {
	dev := &recordingDevice{}
	m := New(dev, clock.Real{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := m.ShowMessage(ctx, "Hello World!", time.Second, Blue, Black)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, dev.frames, 1)
}

const invader = `
palette:
  ".": "#000000"
  r: "#ff0000"
  b: "#0000ff"
rows:
  - "..b..b.."
  - "..rrrr.."
  - "b.b.r.b."
  - ".bbrbr.."
  - "..rrrr.."
  - "..r.r..."
  - "..rrrrr."
  - "..rrr..."
`

func TestParseImage(t *testing.T) {
	pixels, err := ParseImage([]byte(invader))
	assert.NoError(t, err)
	assert.Equal(t, Blue, pixels.At(2, 0))
	assert.Equal(t, Red, pixels.At(2, 1))
	assert.Equal(t, Black, pixels.At(0, 1))
	assert.Equal(t, Red, pixels.At(6, 6))
}

func TestParseImageErrors(t *testing.T) {
	for i, data := range []string{
		"rows: [",
		"palette: {'.': '#000000'}\nrows: ['........']",
		"palette: {'..': '#000000'}\nrows: []",
		"palette: {'.': 'nope'}\nrows: []",
		"palette: {'.': '#000000'}\nrows: ['........','........','........','........','........','........','........','.......x']",
		"palette: {'.': '#000000'}\nrows: ['........','........','........','........','........','........','........','.......']",
	} {
		_, err := ParseImage([]byte(data))
		assert.Error(t, err, "case %d", i)
	}
}

func TestLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invader.yaml")
	require.NoError(t, os.WriteFile(path, []byte(invader), 0o644))

	dev := &recordingDevice{}
	m := New(dev, &clock.Recorder{})
	pixels, err := m.LoadImage(path)
	assert.NoError(t, err)
	assert.Equal(t, pixels, dev.last())

	_, err = m.LoadImage(path + ".missing")
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#969696")
	assert.NoError(t, err)
	assert.Equal(t, White, c)
}
