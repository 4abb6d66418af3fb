package pcf8591

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gethiox/sensehat/internal/pkg/clock"
	"github.com/logrusorgru/aurora"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChip answers a read with the stale value first and then the input of the selected channel
type fakeChip struct {
	inputs   [Channels]byte
	selected byte
	writes   [][]byte
	fail     error
}

func (c *fakeChip) ReadBytes(buf []byte) (int, error) {
	if c.fail != nil {
		return 0, c.fail
	}
	buf[0] = 0xEE
	for i := 1; i < len(buf); i++ {
		buf[i] = c.inputs[c.selected&0x03]
	}
	return len(buf), nil
}

func (c *fakeChip) WriteBytes(buf []byte) (int, error) {
	if c.fail != nil {
		return 0, c.fail
	}
	c.writes = append(c.writes, append([]byte(nil), buf...))
	c.selected = buf[0]
	return len(buf), nil
}

func (c *fakeChip) Close() error {
	return nil
}

// stopAfter cancels the context once n sleeps were recorded
type stopAfter struct {
	clock.Recorder
	n      int
	cancel func()
}

func (s *stopAfter) Sleep(ctx context.Context, d time.Duration) error {
	err := s.Recorder.Sleep(ctx, d)
	if len(s.Sleeps) == s.n {
		s.cancel()
		return ctx.Err()
	}
	return err
}

func TestRead(t *testing.T) {
	chip := &fakeChip{inputs: [Channels]byte{0, 51, 128, 255}}
	c := New(chip, DefaultConfig.Vref)

	v, err := c.Read(2)
	require.NoError(t, err)
	assert.Equal(t, byte(128), v)
	assert.Equal(t, []byte{0x42}, chip.writes[0])

	all, err := c.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [Channels]int{0, 660, 1656, 3300}, all)

	_, err = c.Read(4)
	assert.ErrorIs(t, err, ErrBadChannel)
	_, err = c.Read(-1)
	assert.ErrorIs(t, err, ErrBadChannel)

	chip.fail = errors.New("remote I/O error")
	_, err = c.ReadVoltage(0)
	assert.ErrorIs(t, err, chip.fail)
}

func TestWriteVoltage(t *testing.T) {
	chip := &fakeChip{}
	c := New(chip, 3300)

	for _, tc := range []struct {
		mv       int
		expected byte
	}{
		{0, 0},
		{1000, 77},
		{3000, 231},
		{3300, 255},
		{5000, 255},
		{-10, 0},
	} {
		require.NoError(t, c.WriteVoltage(tc.mv))
		assert.Equal(t, []byte{0x40, tc.expected}, chip.writes[len(chip.writes)-1], "%d mV", tc.mv)
	}
}

func TestSquare(t *testing.T) {
	chip := &fakeChip{}
	c := New(chip, 3300)
	ctx, cancel := context.WithCancel(context.Background())
	sleeper := &stopAfter{n: 4, cancel: cancel}

	err := c.Square(ctx, sleeper, 3000, 1000, time.Millisecond, 25)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []time.Duration{250 * time.Microsecond, 750 * time.Microsecond, 250 * time.Microsecond, 750 * time.Microsecond}, sleeper.Sleeps)
	assert.Equal(t, [][]byte{{0x40, 231}, {0x40, 77}, {0x40, 231}, {0x40, 77}}, chip.writes)
}

func TestSine(t *testing.T) {
	chip := &fakeChip{}
	c := New(chip, 3300)
	ctx, cancel := context.WithCancel(context.Background())
	sleeper := &stopAfter{n: sineSteps, cancel: cancel}

	err := c.Sine(ctx, sleeper, 1500, 100*time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, chip.writes, sineSteps)

	assert.Equal(t, byte(1500*255/3300), chip.writes[0][1])
	assert.Equal(t, byte(3000*255/3300), chip.writes[sineSteps/4][1])
	assert.Equal(t, byte(0), chip.writes[3*sineSteps/4][1])
	assert.Equal(t, (100*time.Millisecond)/sineSteps, sleeper.Sleeps[0])
}

func TestFollow(t *testing.T) {
	chip := &fakeChip{inputs: [Channels]byte{200}}
	c := New(chip, 3300)
	ctx, cancel := context.WithCancel(context.Background())
	sleeper := &stopAfter{n: 2, cancel: cancel}

	err := c.Follow(ctx, sleeper, 0, time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, [][]byte{{0x40}, {0x40, 100}, {0x40}, {0x40, 100}}, chip.writes)
}

func TestWriteVoltageReport(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteVoltageReport(&out, aurora.NewAurora(false), [Channels]int{0, 660, 1656, 3300}))
	assert.Equal(t, "Voltage on ADC:\n> A0 --> 0 mV\n> A1 --> 660 mV\n> A2 --> 1656 mV\n> A3 --> 3300 mV\n", out.String())
}
