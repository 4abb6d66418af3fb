package emulator

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// xterm 256 colour cube channel levels
var cubeLevels = [6]uint8{0, 95, 135, 175, 215, 255}

type xtermColor struct {
	index uint8
	color colorful.Color
}

// palette holds the cube (16-231) and the gray ramp (232-255),
// the 16 system colours depend on the terminal theme and are left out
var palette = buildPalette()

func buildPalette() []xtermColor {
	var p []xtermColor
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p = append(p, xtermColor{
					index: uint8(16 + 36*r + 6*g + b),
					color: rgb(cubeLevels[r], cubeLevels[g], cubeLevels[b]),
				})
			}
		}
	}
	for i := 0; i < 24; i++ {
		v := uint8(8 + 10*i)
		p = append(p, xtermColor{index: uint8(232 + i), color: rgb(v, v, v)})
	}
	return p
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// nearest returns the xterm 256 palette index perceptually closest to c
func nearest(c color.RGBA) uint8 {
	target := rgb(c.R, c.G, c.B)

	var best uint8
	var bestDistance = math.Inf(1)
	for _, x := range palette {
		d := target.DistanceLab(x.color)
		if d < bestDistance {
			best, bestDistance = x.index, d
		}
	}
	return best
}
