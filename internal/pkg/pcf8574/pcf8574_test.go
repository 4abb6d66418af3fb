package pcf8574

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gethiox/sensehat/internal/pkg/clock"
	"github.com/gethiox/sensehat/internal/pkg/input"
	"github.com/logrusorgru/aurora"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePort replays port values, the last one repeats forever
type fakePort struct {
	reads  []byte
	writes []byte
	fail   error
	closed bool
}

func (p *fakePort) ReadBytes(buf []byte) (int, error) {
	if p.fail != nil {
		return 0, p.fail
	}
	buf[0] = p.reads[0]
	if len(p.reads) > 1 {
		p.reads = p.reads[1:]
	}
	return 1, nil
}

func (p *fakePort) WriteBytes(buf []byte) (int, error) {
	if p.fail != nil {
		return 0, p.fail
	}
	p.writes = append(p.writes, buf...)
	return len(buf), nil
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func TestExpanderOutputs(t *testing.T) {
	port := &fakePort{reads: []byte{0xFF}}
	e, err := New(port)
	require.NoError(t, err)

	require.NoError(t, e.SetOutput(4, true))
	require.NoError(t, e.SetOutput(0, true))
	require.NoError(t, e.SetOutput(4, false))
	assert.Equal(t, []byte{0xFF, 0xEF, 0xEE, 0xFE}, port.writes)

	assert.ErrorIs(t, e.SetOutput(8, true), ErrBadPin)
	assert.ErrorIs(t, e.SetOutput(-1, true), ErrBadPin)
}

func TestExpanderErrors(t *testing.T) {
	port := &fakePort{fail: errors.New("remote I/O error")}
	_, err := New(port)
	assert.ErrorIs(t, err, port.fail)

	port = &fakePort{reads: []byte{0xFF}}
	e, err := New(port)
	require.NoError(t, err)
	port.fail = errors.New("remote I/O error")
	_, err = e.Read()
	assert.ErrorIs(t, err, port.fail)
	// failed writes keep the previous output state
	assert.Error(t, e.SetOutput(4, true))
	port.fail = nil
	require.NoError(t, e.SetOutput(0, true))
	assert.Equal(t, byte(0xFE), port.writes[len(port.writes)-1])
}

func TestBlink(t *testing.T) {
	port := &fakePort{reads: []byte{0xFF}}
	e, err := New(port)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	sleeper := &cancellingSleeper{after: 4, cancel: cancel}
	err = e.Blink(ctx, sleeper, 4, time.Second)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []byte{0xFF, 0xEF, 0xFF, 0xEF, 0xFF, 0xEF, 0xFF}, port.writes)
	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second, time.Second}, sleeper.Sleeps)
}

// cancellingSleeper cancels the context on the call following the first after calls
type cancellingSleeper struct {
	clock.Recorder
	after  int
	cancel func()
}

func (s *cancellingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if len(s.Sleeps) == s.after {
		s.cancel()
	}
	return s.Recorder.Sleep(ctx, d)
}

func TestName(t *testing.T) {
	for _, tc := range []struct {
		port     byte
		expected string
	}{
		{0xFF, ""},
		{0xFE, "LEFT"},
		{0xFD, "UP"},
		{0xFB, "DOWN"},
		{0xF7, "RIGHT"},
		{0xFC, "UP-LEFT"},
		{0xF5, "UP-RIGHT"},
		{0xFA, "DOWN-LEFT"},
		{0xF3, "DOWN-RIGHT"},
		{0x0F, ""}, // high nibble is not wired to buttons
	} {
		assert.Equal(t, tc.expected, Name(tc.port), "0x%02x", tc.port)
	}
}

func TestJoystick(t *testing.T) {
	port := &fakePort{reads: []byte{0xFF, 0xFF, 0xFD, 0xFD, 0xFC, 0xFF}}
	e, err := New(port)
	require.NoError(t, err)
	sleeper := &clock.Recorder{}
	j := NewJoystick(e, sleeper, DefaultPoll, 4)
	ctx := context.Background()

	var events []input.Event
	for i := 0; i < 4; i++ {
		ev, err := j.WaitForEvent(ctx)
		require.NoError(t, err)
		events = append(events, ev)
	}

	assert.Equal(t, []input.Event{
		{Direction: input.Up, Action: input.Pressed},
		{Direction: input.Left, Action: input.Pressed},
		{Direction: input.Up, Action: input.Released},
		{Direction: input.Left, Action: input.Released},
	}, events)
	// two idle polls before the first press, one while up is held
	assert.Len(t, sleeper.Sleeps, 3)
	// LED lit on the first press, off once everything is released
	assert.Equal(t, []byte{0xFF, 0xEF, 0xFF}, port.writes)

	require.NoError(t, j.Close())
	assert.True(t, port.closed)
}

func TestJoystickCancelled(t *testing.T) {
	port := &fakePort{reads: []byte{0xFF}}
	e, err := New(port)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewJoystick(e, &clock.Recorder{}, DefaultPoll, -1).WaitForEvent(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []byte{0xFF}, port.writes)
}

func TestWriteReport(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteReport(&out, aurora.NewAurora(false), 0xA5))
	assert.Equal(t, "Port:\n   binary: 0b10100101\n   hex: 0xa5\n", out.String())
}
