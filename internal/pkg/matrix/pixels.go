package matrix

import (
	"fmt"
	"image/color"
)

const (
	Width  = 8
	Height = 8
	Size   = Width * Height
)

var (
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 0xff}
	Red    = color.RGBA{R: 255, G: 0, B: 0, A: 0xff}
	Green  = color.RGBA{R: 0, G: 255, B: 0, A: 0xff}
	Blue   = color.RGBA{R: 0, G: 0, B: 255, A: 0xff}
	Yellow = color.RGBA{R: 255, G: 255, B: 0, A: 0xff}
	White  = color.RGBA{R: 150, G: 150, B: 150, A: 0xff} // dimmed, full white is blinding
)

// Pixels is a full frame in row-major order, cell (x, y) lives at x + y*Width
type Pixels [Size]color.RGBA

func Index(x, y int) int {
	return x + y*Width
}

func InRange(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

// Filled returns a frame with every cell set to c
func Filled(c color.RGBA) Pixels {
	var p Pixels
	for i := range p {
		p[i] = c
	}
	return p
}

func (p Pixels) At(x, y int) color.RGBA {
	return p[Index(x, y)]
}

func (p *Pixels) Set(x, y int, c color.RGBA) {
	p[Index(x, y)] = c
}

func (p Pixels) FlipHorizontal() Pixels {
	var out Pixels
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			out.Set(Width-1-x, y, p.At(x, y))
		}
	}
	return out
}

func (p Pixels) FlipVertical() Pixels {
	var out Pixels
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			out.Set(x, Height-1-y, p.At(x, y))
		}
	}
	return out
}

// Rotate turns the frame clockwise by r degrees, r has to be one of 0, 90, 180, 270
func (p Pixels) Rotate(r int) Pixels {
	var out Pixels
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			var nx, ny int
			switch r {
			case 90:
				nx, ny = Height-1-y, x
			case 180:
				nx, ny = Width-1-x, Height-1-y
			case 270:
				nx, ny = y, Width-1-x
			default:
				nx, ny = x, y
			}
			out.Set(nx, ny, p.At(x, y))
		}
	}
	return out
}

func (p Pixels) String() string {
	var s string
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			c := p.At(x, y)
			s += fmt.Sprintf("%02x%02x%02x ", c.R, c.G, c.B)
		}
		s += "\n"
	}
	return s
}

// rgb565 packs a colour the way the Sense HAT framebuffer expects it
func rgb565(c color.RGBA) uint16 {
	return uint16((uint16(c.R>>3)&0x1F)<<11 | (uint16(c.G>>2)&0x3F)<<5 | (uint16(c.B>>3) & 0x1F))
}

func fromRGB565(v uint16) color.RGBA {
	r := uint8(v>>11) & 0x1F
	g := uint8(v>>5) & 0x3F
	b := uint8(v) & 0x1F
	return color.RGBA{R: r << 3, G: g << 2, B: b << 3, A: 0xff}
}
