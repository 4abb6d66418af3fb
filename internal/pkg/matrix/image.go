package matrix

import (
	"fmt"
	"image/color"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Image is the on-disk form of an 8x8 picture:
//
//	palette:
//	  ".": "#000000"
//	  r: "#ff0000"
//	rows:
//	  - "..r..r.."
//	  ...
type Image struct {
	Palette map[string]string `yaml:"palette"`
	Rows    []string          `yaml:"rows"`
}

func ReadImage(path string) (Pixels, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pixels{}, fmt.Errorf("cannot read \"%s\" image: %w", path, err)
	}
	pixels, err := ParseImage(data)
	if err != nil {
		return Pixels{}, fmt.Errorf("\"%s\": %w", path, err)
	}
	return pixels, nil
}

func ParseImage(data []byte) (Pixels, error) {
	var img Image
	err := yaml.Unmarshal(data, &img)
	if err != nil {
		return Pixels{}, fmt.Errorf("yaml parsing failed: %w", err)
	}

	palette := make(map[rune]color.RGBA, len(img.Palette))
	for key, hex := range img.Palette {
		runes := []rune(key)
		if len(runes) != 1 {
			return Pixels{}, fmt.Errorf("palette key \"%s\" has to be a single character", key)
		}
		c, err := ParseColor(hex)
		if err != nil {
			return Pixels{}, err
		}
		palette[runes[0]] = c
	}

	if len(img.Rows) != Height {
		return Pixels{}, fmt.Errorf("expected %d rows, got %d", Height, len(img.Rows))
	}

	var pixels Pixels
	for y, row := range img.Rows {
		runes := []rune(row)
		if len(runes) != Width {
			return Pixels{}, fmt.Errorf("row %d: expected %d pixels, got %d", y, Width, len(runes))
		}
		for x, r := range runes {
			c, ok := palette[r]
			if !ok {
				return Pixels{}, fmt.Errorf("row %d: \"%c\" is not in the palette", y, r)
			}
			pixels.Set(x, y, c)
		}
	}
	return pixels, nil
}

// ParseColor accepts "#rrggbb" notation
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour \"%s\": %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
