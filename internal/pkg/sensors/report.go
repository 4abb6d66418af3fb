package sensors

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
)

type IMUReader interface {
	OrientationRadians() (Orientation, error)
	Orientation() (Orientation, error)
	Compass() (float64, error)
	CompassRaw() (Vector, error)
	GyroscopeRaw() (Vector, error)
	AccelerometerRaw() (Vector, error)
}

type EnvironmentReader interface {
	Humidity(ctx context.Context) (float64, error)
	TemperatureFromHumidity(ctx context.Context) (float64, error)
	TemperatureFromPressure(ctx context.Context) (float64, error)
	Pressure(ctx context.Context) (float64, error)
}

type IMUReading struct {
	Radians, Degrees Orientation
	North            float64
	Compass          Vector // µT
	Gyroscope        Vector // rad/s
	Accelerometer    Vector // g
}

func ReadIMU(r IMUReader) (IMUReading, error) {
	var reading IMUReading
	var err error

	if reading.Radians, err = r.OrientationRadians(); err != nil {
		return reading, err
	}
	if reading.Degrees, err = r.Orientation(); err != nil {
		return reading, err
	}
	if reading.North, err = r.Compass(); err != nil {
		return reading, err
	}
	if reading.Compass, err = r.CompassRaw(); err != nil {
		return reading, err
	}
	if reading.Gyroscope, err = r.GyroscopeRaw(); err != nil {
		return reading, err
	}
	if reading.Accelerometer, err = r.AccelerometerRaw(); err != nil {
		return reading, err
	}
	return reading, nil
}

type EnvironmentReading struct {
	Humidity                float64 // %rH
	TemperatureFromHumidity float64 // °C
	TemperatureFromPressure float64 // °C
	Pressure                float64 // millibar
}

// ReadEnvironment runs the conversions one after another, cancelling ctx interrupts a pending one
func ReadEnvironment(ctx context.Context, r EnvironmentReader) (EnvironmentReading, error) {
	var reading EnvironmentReading
	var err error

	if reading.Humidity, err = r.Humidity(ctx); err != nil {
		return reading, err
	}
	if reading.TemperatureFromHumidity, err = r.TemperatureFromHumidity(ctx); err != nil {
		return reading, err
	}
	if reading.TemperatureFromPressure, err = r.TemperatureFromPressure(ctx); err != nil {
		return reading, err
	}
	if reading.Pressure, err = r.Pressure(ctx); err != nil {
		return reading, err
	}
	return reading, nil
}

// Lines fits the reading onto a 20x4 character display
func (e EnvironmentReading) Lines() []string {
	return []string{
		fmt.Sprintf("Humidity %7.2f %%rH", e.Humidity),
		fmt.Sprintf("Temp (H) %8.2f C", e.TemperatureFromHumidity),
		fmt.Sprintf("Temp (P) %8.2f C", e.TemperatureFromPressure),
		fmt.Sprintf("Pressure %6.1f mbar", e.Pressure),
	}
}

func header(au aurora.Aurora, s string) string {
	return au.Bold(au.Cyan(s)).String()
}

func WriteIMUReport(w io.Writer, au aurora.Aurora, r IMUReading) error {
	var b strings.Builder

	fmt.Fprintln(&b, header(au, "Orientation (radians):"))
	fmt.Fprintf(&b, "   p: %s rad, r: %s rad, y: %s rad\n",
		au.Yellow(fmt.Sprintf("%f", r.Radians.Pitch)),
		au.Yellow(fmt.Sprintf("%f", r.Radians.Roll)),
		au.Yellow(fmt.Sprintf("%f", r.Radians.Yaw)),
	)
	fmt.Fprintln(&b, header(au, "Orientation (degrees):"))
	fmt.Fprintf(&b, "   p: %s°, r: %s°, y: %s°\n",
		au.Yellow(fmt.Sprintf("%f", r.Degrees.Pitch)),
		au.Yellow(fmt.Sprintf("%f", r.Degrees.Roll)),
		au.Yellow(fmt.Sprintf("%f", r.Degrees.Yaw)),
	)
	fmt.Fprintln(&b, header(au, "Compass:"))
	fmt.Fprintf(&b, "   North: %s\n", au.Yellow(fmt.Sprintf("%f", r.North)))
	fmt.Fprintln(&b, header(au, "Compass raw:"))
	fmt.Fprintf(&b, "   x: %f, y: %f, z: %f\n", r.Compass.X, r.Compass.Y, r.Compass.Z)
	fmt.Fprintln(&b, header(au, "Gyroscope:"))
	fmt.Fprintf(&b, "   x: %f rad/s, y: %f rad/s, z: %f rad/s\n", r.Gyroscope.X, r.Gyroscope.Y, r.Gyroscope.Z)
	fmt.Fprintln(&b, header(au, "Accelerometer:"))
	fmt.Fprintf(&b, "   x: %f Gs, y: %f Gs, z: %f Gs\n", r.Accelerometer.X, r.Accelerometer.Y, r.Accelerometer.Z)

	_, err := io.WriteString(w, b.String())
	return err
}

func WriteEnvironmentReport(w io.Writer, au aurora.Aurora, r EnvironmentReading) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s %%rH\n", header(au, "Humidity:"), au.Yellow(fmt.Sprintf("%f", r.Humidity)))
	fmt.Fprintf(&b, "%s %s °C\n", header(au, "Temperature (humidity sensor):"), au.Yellow(fmt.Sprintf("%f", r.TemperatureFromHumidity)))
	fmt.Fprintf(&b, "%s %s °C\n", header(au, "Temperature (pressure sensor):"), au.Yellow(fmt.Sprintf("%f", r.TemperatureFromPressure)))
	fmt.Fprintf(&b, "%s %s Millibars\n", header(au, "Pressure:"), au.Yellow(fmt.Sprintf("%f", r.Pressure)))

	_, err := io.WriteString(w, b.String())
	return err
}
