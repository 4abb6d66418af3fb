package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gethiox/sensehat/internal/pkg/display"
	"github.com/gethiox/sensehat/internal/pkg/logger"
	"github.com/gethiox/sensehat/internal/pkg/pcf8574"
	"github.com/gethiox/sensehat/internal/pkg/pcf8591"
	"github.com/gethiox/sensehat/internal/pkg/sensors"
	"github.com/go-ini/ini"
)

var log = logger.GetLogger()

//go:embed sensehat.config
var template []byte

const DefaultPath = "./sensehat.config"

type Matrix struct {
	Framebuffer string
	Rotation    int
}

type Joystick struct {
	Name string
	Grab bool
}

type Config struct {
	Matrix    Matrix
	Joystick  Joystick
	Sensors   sensors.Config
	Expander  pcf8574.Config
	Converter pcf8591.Config
	Screen    display.ScreenConfig
}

// CreateIfNeeded writes the default config into path when it does not exist yet
func CreateIfNeeded(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cannot stat \"%s\" config: %w", path, err)
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0o777)
	if err != nil {
		return fmt.Errorf("cannot create \"%s\" directory: %w", dir, err)
	}

	err = os.WriteFile(path, template, 0o666)
	if err != nil {
		return fmt.Errorf("cannot write \"%s\" config: %w", path, err)
	}
	log.Info(fmt.Sprintf("Created \"%s\" config", path), logger.Info)
	return nil
}

func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Parse reads an ini document, missing keys fall back to the embedded defaults
func Parse(data []byte) (Config, error) {
	cfg, err := ini.Load(template, data)
	if err != nil {
		return Config{}, fmt.Errorf("parsing config failed: %w", err)
	}

	var c Config

	// [matrix]
	matrix := cfg.Section("matrix")
	c.Matrix.Framebuffer = matrix.Key("framebuffer").String()
	c.Matrix.Rotation, err = matrix.Key("rotation").Int()
	if err != nil {
		return Config{}, keyError("matrix", "rotation", err)
	}

	// [joystick]
	joystick := cfg.Section("joystick")
	c.Joystick.Name = joystick.Key("name").String()
	c.Joystick.Grab, err = joystick.Key("grab").Bool()
	if err != nil {
		return Config{}, keyError("joystick", "grab", err)
	}

	// [sensors]
	s := cfg.Section("sensors")
	c.Sensors.Bus, err = s.Key("bus").Int()
	if err != nil {
		return Config{}, keyError("sensors", "bus", err)
	}
	for _, a := range []struct {
		key string
		dst *uint8
	}{
		{"humidity_address", &c.Sensors.Humidity},
		{"pressure_address", &c.Sensors.Pressure},
		{"imu_address", &c.Sensors.IMU},
		{"magnetometer_address", &c.Sensors.Magnetometer},
	} {
		*a.dst, err = address(s.Key(a.key).String())
		if err != nil {
			return Config{}, keyError("sensors", a.key, err)
		}
	}

	// [expander]
	expander := cfg.Section("expander")
	c.Expander.Bus, err = expander.Key("bus").Int()
	if err != nil {
		return Config{}, keyError("expander", "bus", err)
	}
	c.Expander.Address, err = address(expander.Key("address").String())
	if err != nil {
		return Config{}, keyError("expander", "address", err)
	}
	c.Expander.LedPin, err = expander.Key("led_pin").Int()
	if err == nil && c.Expander.LedPin > 7 {
		err = fmt.Errorf("%w: %d", pcf8574.ErrBadPin, c.Expander.LedPin)
	}
	if err != nil {
		return Config{}, keyError("expander", "led_pin", err)
	}

	// [converter]
	converter := cfg.Section("converter")
	c.Converter.Bus, err = converter.Key("bus").Int()
	if err != nil {
		return Config{}, keyError("converter", "bus", err)
	}
	c.Converter.Address, err = address(converter.Key("address").String())
	if err != nil {
		return Config{}, keyError("converter", "address", err)
	}
	c.Converter.Vref, err = converter.Key("vref").Int()
	if err == nil && c.Converter.Vref <= 0 {
		err = fmt.Errorf("has to be positive, got %d", c.Converter.Vref)
	}
	if err != nil {
		return Config{}, keyError("converter", "vref", err)
	}

	// [screen]
	screen := cfg.Section("screen")
	c.Screen.Enabled, err = screen.Key("enabled").Bool()
	if err != nil {
		return Config{}, keyError("screen", "enabled", err)
	}
	c.Screen.LcdType, err = display.ParseLcdType(screen.Key("type").String())
	if err != nil {
		return Config{}, keyError("screen", "type", err)
	}
	c.Screen.Bus, err = screen.Key("bus").Int()
	if err != nil {
		return Config{}, keyError("screen", "bus", err)
	}
	c.Screen.Address, err = address(screen.Key("address").String())
	if err != nil {
		return Config{}, keyError("screen", "address", err)
	}

	return c, nil
}

// address accepts decimal, 0x hex and 0o octal notation
func address(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, err
	}
	return uint8(v), nil
}

func keyError(section, key string, err error) error {
	return fmt.Errorf("invalid [%s] %s: %w", section, key, err)
}
