package matrix

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/gethiox/sensehat/internal/pkg/logger"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var font tinyfont.Fonter = &proggy.TinySZ8pt7b

// baseline of the font on an 8 pixel tall matrix
const baseline = 7

// canvas is an off-screen drawing surface for tinyfont, wider than the matrix when scrolling
type canvas struct {
	width, height int16
	pix           []color.RGBA
}

var _ drivers.Displayer = (*canvas)(nil)

func newCanvas(width int, bg color.RGBA) *canvas {
	c := &canvas{
		width:  int16(width),
		height: Height,
		pix:    make([]color.RGBA, width*Height),
	}
	for i := range c.pix {
		c.pix[i] = bg
	}
	return c
}

func (c *canvas) Size() (x, y int16) {
	return c.width, c.height
}

func (c *canvas) SetPixel(x, y int16, col color.RGBA) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.pix[int(y)*int(c.width)+int(x)] = col
}

func (c *canvas) Display() error {
	return nil
}

// window cuts an 8x8 frame starting at the given column
func (c *canvas) window(offset int) Pixels {
	var p Pixels
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			p.Set(x, y, c.pix[y*int(c.width)+offset+x])
		}
	}
	return p
}

func textWidth(text string) int {
	_, outbox := tinyfont.LineWidth(font, text)
	return int(outbox)
}

// ShowMessage scrolls text from right to left, speed is the pause between one column shift
func (m *Matrix) ShowMessage(ctx context.Context, text string, speed time.Duration, fg, bg color.RGBA) error {
	width := Width + textWidth(text) + Width
	c := newCanvas(width, bg)
	tinyfont.WriteLine(c, font, Width, baseline, text, fg)

	log.Info(fmt.Sprintf("scrolling message \"%s\" (%d columns)", text, width), logger.Debug)
	for offset := 0; offset <= width-Width; offset++ {
		err := m.SetPixels(c.window(offset))
		if err != nil {
			return err
		}
		err = m.sleeper.Sleep(ctx, speed)
		if err != nil {
			return err
		}
	}
	return nil
}

// ShowLetter displays a single character centred on the matrix
func (m *Matrix) ShowLetter(r rune, fg, bg color.RGBA) error {
	c := newCanvas(Width, bg)
	x := (Width - textWidth(string(r))) / 2
	if x < 0 {
		x = 0
	}
	tinyfont.DrawChar(c, font, int16(x), baseline, r, fg)
	return m.SetPixels(c.window(0))
}
