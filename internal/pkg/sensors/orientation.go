package sensors

import (
	"fmt"
	"math"
)

type Vector struct {
	X, Y, Z float64
}

func (v Vector) String() string {
	return fmt.Sprintf("x: %5.2f, y: %5.2f, z: %5.2f", v.X, v.Y, v.Z)
}

// Orientation angles, unit depends on the producer
type Orientation struct {
	Pitch, Roll, Yaw float64
}

func (o Orientation) String() string {
	return fmt.Sprintf("p: %.4f, r: %.4f, y: %.4f", o.Pitch, o.Roll, o.Yaw)
}

// orientationFrom derives pitch and roll from gravity and a tilt-compensated heading
// from the magnetic field, result in radians with yaw in [0, 2π)
func orientationFrom(accel, mag Vector) Orientation {
	roll := math.Atan2(accel.Y, accel.Z)
	pitch := math.Atan2(-accel.X, math.Sqrt(accel.Y*accel.Y+accel.Z*accel.Z))

	xh := mag.X*math.Cos(pitch) + mag.Z*math.Sin(pitch)
	yh := mag.X*math.Sin(roll)*math.Sin(pitch) + mag.Y*math.Cos(roll) - mag.Z*math.Sin(roll)*math.Cos(pitch)
	yaw := wrap(math.Atan2(yh, xh), 2*math.Pi)

	return Orientation{Pitch: pitch, Roll: roll, Yaw: yaw}
}

func wrap(v, period float64) float64 {
	v = math.Mod(v, period)
	if v < 0 {
		v += period
	}
	if v >= period {
		v = 0
	}
	return v
}

func degrees(rad float64) float64 {
	return wrap(rad*180/math.Pi, 360)
}

// Degrees converts radians to degrees, every angle in [0, 360)
func (o Orientation) Degrees() Orientation {
	return Orientation{
		Pitch: degrees(o.Pitch),
		Roll:  degrees(o.Roll),
		Yaw:   degrees(o.Yaw),
	}
}
