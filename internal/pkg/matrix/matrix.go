package matrix

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/gethiox/sensehat/internal/pkg/clock"
	"github.com/gethiox/sensehat/internal/pkg/logger"
)

var log = logger.GetLogger()

var (
	ErrOutOfRange  = errors.New("pixel out of range")
	ErrBadRotation = errors.New("rotation has to be one of 0, 90, 180, 270")
)

// Device is a physical (or emulated) LED matrix receiving complete frames
type Device interface {
	Render(pixels Pixels) error
	Close() error
}

// Matrix keeps the logical frame and pushes it to the device after every change.
// It is not safe for concurrent use.
type Matrix struct {
	device   Device
	sleeper  clock.Sleeper
	pixels   Pixels
	rotation int
}

// FrameReader is implemented by devices that can report the frame they currently show
type FrameReader interface {
	Read() (Pixels, error)
}

// New starts from the frame the device already shows when it can be read back, black otherwise
func New(device Device, sleeper clock.Sleeper) *Matrix {
	m := &Matrix{
		device:  device,
		sleeper: sleeper,
		pixels:  Filled(Black),
	}
	if r, ok := device.(FrameReader); ok {
		current, err := r.Read()
		if err != nil {
			log.Info(fmt.Sprintf("reading current frame failed: %v", err), logger.Warning)
		} else {
			m.pixels = current
		}
	}
	return m
}

func (m *Matrix) push() error {
	err := m.device.Render(m.pixels.Rotate(m.rotation))
	if err != nil {
		return fmt.Errorf("rendering frame failed: %w", err)
	}
	return nil
}

func (m *Matrix) SetPixel(x, y int, c color.RGBA) error {
	if !InRange(x, y) {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfRange, x, y)
	}
	m.pixels.Set(x, y, c)
	return m.push()
}

func (m *Matrix) GetPixel(x, y int) (color.RGBA, error) {
	if !InRange(x, y) {
		return color.RGBA{}, fmt.Errorf("%w: (%d, %d)", ErrOutOfRange, x, y)
	}
	return m.pixels.At(x, y), nil
}

func (m *Matrix) SetPixels(pixels Pixels) error {
	m.pixels = pixels
	return m.push()
}

func (m *Matrix) GetPixels() Pixels {
	return m.pixels
}

func (m *Matrix) Clear(c color.RGBA) error {
	return m.SetPixels(Filled(c))
}

func (m *Matrix) FlipHorizontal() (Pixels, error) {
	flipped := m.pixels.FlipHorizontal()
	return flipped, m.SetPixels(flipped)
}

func (m *Matrix) FlipVertical() (Pixels, error) {
	flipped := m.pixels.FlipVertical()
	return flipped, m.SetPixels(flipped)
}

// SetRotation corrects the orientation of the image when the Pi is mounted upside down or sideways
func (m *Matrix) SetRotation(r int) error {
	switch r {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("%w: %d", ErrBadRotation, r)
	}
	m.rotation = r
	log.Info(fmt.Sprintf("matrix rotation set to %d", r), logger.Debug)
	return m.push()
}

func (m *Matrix) Rotation() int {
	return m.rotation
}

// LoadImage reads an 8x8 YAML image and displays it
func (m *Matrix) LoadImage(path string) (Pixels, error) {
	pixels, err := ReadImage(path)
	if err != nil {
		return Pixels{}, err
	}
	return pixels, m.SetPixels(pixels)
}

func (m *Matrix) Close() error {
	return m.device.Close()
}
