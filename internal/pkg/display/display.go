package display

import (
	"fmt"
	"strings"
	"sync"

	device "github.com/d2r2/go-hd44780"
	"github.com/d2r2/go-i2c"
	shittyLogger "github.com/d2r2/go-logger"
	"github.com/gethiox/sensehat/internal/pkg/logger"
)

var log = logger.GetLogger()

func getDisplay(addr uint8, bus int, lcdType device.LcdType) (*device.Lcd, *i2c.I2C, error) {
	shittyLogger.ChangePackageLogLevel("i2c", shittyLogger.InfoLevel)

	lcdRaw, err := i2c.NewI2C(addr, bus)
	if err != nil {
		return nil, nil, err
	}

	lcd, err := device.NewLcd(lcdRaw, lcdType)
	if err != nil {
		return nil, lcdRaw, err
	}

	return lcd, lcdRaw, nil
}

// HD44780 A00 character ROM
var conversionMap = map[rune]byte{
	'°': 0xDF,
	'µ': 0xE4,
}

func replaceCharsForDisplay(s string) []byte {
	var out []byte
	for _, r := range s {
		n, ok := conversionMap[r]
		switch {
		case ok:
			out = append(out, n)
		case r < 0x80:
			out = append(out, byte(r))
		default:
			out = append(out, '?')
		}
	}
	return out
}

// fit pads or truncates the line to exactly width cells, stale characters get overwritten
func fit(line []byte, width int) []byte {
	if len(line) > width {
		return line[:width]
	}
	return append(line, []byte(strings.Repeat(" ", width-len(line)))...)
}

type screen interface {
	SetPosition(line, pos int) error
	Write(buf []byte) (int, error)
}

func show(lcd screen, lines []string, width, height int) error {
	for i := 0; i < height; i++ {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		err := lcd.SetPosition(i, 0)
		if err != nil {
			return err
		}
		_, err = lcd.Write(fit(replaceCharsForDisplay(line), width))
		if err != nil {
			return err
		}
	}
	return nil
}

type DisplayData struct {
	Lines []string
}

// HandleDisplay mirrors every received batch of lines until dd gets closed
func HandleDisplay(wg *sync.WaitGroup, cfg ScreenConfig, dd <-chan DisplayData) {
	defer wg.Done()
	lcd, bus, err := getDisplay(cfg.Address, cfg.Bus, cfg.LcdType)
	if err != nil {
		log.Info(fmt.Sprintf("display unavailable: %v", err), logger.Warning)
		if bus != nil {
			bus.Close()
		}
		for range dd {
		}
		return
	}

	lcd.BacklightOn()
	lcd.Clear()

	width, height := cfg.Size()
	for data := range dd {
		err := show(lcd, data.Lines, width, height)
		if err != nil {
			log.Info(fmt.Sprintf("display write failed: %v", err), logger.Warning)
		}
	}

	bus.Close()
	log.Info("display closed", logger.Debug)
}
