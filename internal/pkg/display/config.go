package display

import (
	"fmt"

	"github.com/d2r2/go-hd44780"
)

type ScreenConfig struct {
	Enabled bool
	LcdType hd44780.LcdType
	Bus     int
	Address uint8
}

func ParseLcdType(s string) (hd44780.LcdType, error) {
	switch s {
	case "16x2":
		return hd44780.LCD_16x2, nil
	case "20x4":
		return hd44780.LCD_20x4, nil
	default:
		return 0, fmt.Errorf("unsupported screen type %q, expected 16x2 or 20x4", s)
	}
}

// Size returns the amount of characters per line and lines
func (s ScreenConfig) Size() (int, int) {
	if s.LcdType == hd44780.LCD_16x2 {
		return 16, 2
	}
	return 20, 4
}
