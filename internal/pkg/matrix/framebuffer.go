package matrix

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gethiox/sensehat/internal/pkg/fs"
	"github.com/gethiox/sensehat/internal/pkg/logger"
)

const (
	FramebufferName = "RPi-Sense FB"

	graphicsClass = "/sys/class/graphics"
	devRoot       = "/dev"
)

var ErrNotFound = errors.New("sense hat framebuffer not found")

// FindFramebuffer looks up the /dev/fbN node that belongs to the Sense HAT LED matrix driver
func FindFramebuffer() (string, error) {
	return findFramebuffer(graphicsClass, devRoot)
}

func findFramebuffer(classRoot, devRoot string) (string, error) {
	class := fs.NewEntry(classRoot)
	names, err := class.DirNames("fb")
	if err != nil {
		return "", fmt.Errorf("listing framebuffers failed: %w", err)
	}

	dirs, _ := class.Dirs()
	for _, name := range names {
		dir := dirs[name]
		fbName, err := dir.ReadString("name")
		if err != nil {
			log.Info(fmt.Sprintf("cannot read %s name: %v", name, err), logger.Debug)
			continue
		}
		if fbName == FramebufferName {
			return filepath.Join(devRoot, name), nil
		}
	}

	return "", ErrNotFound
}

// Framebuffer writes frames straight into the LED matrix framebuffer device
type Framebuffer struct {
	file *os.File
	buf  []byte
}

func OpenFramebuffer(path string) (*Framebuffer, error) {
	if path == "" || path == "auto" {
		found, err := FindFramebuffer()
		if err != nil {
			return nil, err
		}
		path = found
	}

	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("cannot open \"%s\" framebuffer: %w", path, err)
	}
	log.Info(fmt.Sprintf("LED matrix framebuffer opened: %s", path), logger.Debug)

	return &Framebuffer{
		file: file,
		buf:  make([]byte, Size*2),
	}, nil
}

func encodeFrame(buf []byte, pixels Pixels) {
	for i, c := range pixels {
		binary.LittleEndian.PutUint16(buf[i*2:], rgb565(c))
	}
}

func decodeFrame(buf []byte) Pixels {
	var pixels Pixels
	for i := range pixels {
		pixels[i] = fromRGB565(binary.LittleEndian.Uint16(buf[i*2:]))
	}
	return pixels
}

func (f *Framebuffer) Render(pixels Pixels) error {
	encodeFrame(f.buf, pixels)
	_, err := f.file.WriteAt(f.buf, 0)
	return err
}

// Read returns what the framebuffer currently holds, colours lose precision in RGB565
func (f *Framebuffer) Read() (Pixels, error) {
	buf := make([]byte, Size*2)
	_, err := f.file.ReadAt(buf, 0)
	if err != nil {
		return Pixels{}, err
	}
	return decodeFrame(buf), nil
}

func (f *Framebuffer) Close() error {
	return f.file.Close()
}
