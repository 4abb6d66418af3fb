package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/d2r2/go-hd44780"
	"github.com/gethiox/sensehat/internal/pkg/pcf8574"
	"github.com/gethiox/sensehat/internal/pkg/pcf8591"
	"github.com/gethiox/sensehat/internal/pkg/sensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, Matrix{Framebuffer: "auto", Rotation: 0}, c.Matrix)
	assert.Equal(t, Joystick{Name: "Raspberry Pi Sense HAT Joystick", Grab: true}, c.Joystick)
	assert.Equal(t, sensors.DefaultConfig, c.Sensors)
	assert.Equal(t, pcf8574.DefaultConfig, c.Expander)
	assert.Equal(t, pcf8591.DefaultConfig, c.Converter)
	assert.False(t, c.Screen.Enabled)
	assert.Equal(t, hd44780.LCD_20x4, c.Screen.LcdType)
	assert.Equal(t, 1, c.Screen.Bus)
	assert.Equal(t, uint8(0x27), c.Screen.Address)
}

func TestOverrides(t *testing.T) {
	c, err := Parse([]byte(`
[matrix]
framebuffer = /dev/fb1
rotation = 180

[sensors]
bus = 3
imu_address = 106

[screen]
enabled = true
type = 16x2
`))
	require.NoError(t, err)

	assert.Equal(t, "/dev/fb1", c.Matrix.Framebuffer)
	assert.Equal(t, 180, c.Matrix.Rotation)
	assert.Equal(t, 3, c.Sensors.Bus)
	assert.Equal(t, uint8(0x6A), c.Sensors.IMU)
	assert.Equal(t, uint8(0x5F), c.Sensors.Humidity)
	assert.True(t, c.Screen.Enabled)
	assert.Equal(t, hd44780.LCD_16x2, c.Screen.LcdType)
}

func TestInvalid(t *testing.T) {
	for _, tc := range []struct {
		name, data, message string
	}{
		{"address overflow", "[sensors]\nhumidity_address = 0x1FF", "[sensors] humidity_address"},
		{"address garbage", "[screen]\naddress = lcd", "[screen] address"},
		{"rotation", "[matrix]\nrotation = upside", "[matrix] rotation"},
		{"grab", "[joystick]\ngrab = maybe", "[joystick] grab"},
		{"screen type", "[screen]\ntype = 40x2", "[screen] type"},
		{"led pin", "[expander]\nled_pin = 9", "[expander] led_pin"},
		{"vref", "[converter]\nvref = 0", "[converter] vref"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestCreateIfNeeded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "sensehat.config")

	require.NoError(t, CreateIfNeeded(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, template, data)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sensors.DefaultConfig, c.Sensors)

	// existing file stays intact
	require.NoError(t, os.WriteFile(path, []byte("[matrix]\nrotation = 90\n"), 0o666))
	require.NoError(t, CreateIfNeeded(path))
	c, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 90, c.Matrix.Rotation)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.config"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
