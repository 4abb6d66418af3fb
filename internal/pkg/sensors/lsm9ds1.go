package sensors

import (
	"fmt"
	"math"
)

// LSM9DS1 accelerometer/gyroscope registers
const (
	agWhoAmI      = 0x0F
	agWhoAmIValue = 0x68

	ctrlReg1G  = 0x10
	ctrlReg6XL = 0x20

	outXLG  = 0x18
	outXLXL = 0x28

	gyroConfig  = 0x78 // 119 Hz, 2000 dps
	accelConfig = 0x78 // 119 Hz, ±8 g
)

// LSM9DS1 magnetometer registers
const (
	mWhoAmI      = 0x0F
	mWhoAmIValue = 0x3D

	ctrlReg1M = 0x20
	ctrlReg2M = 0x21
	ctrlReg3M = 0x22
	ctrlReg4M = 0x23

	outXLM = 0x28
)

const (
	gyroSensitivity  = 0.070    // dps per LSB
	accelSensitivity = 0.000244 // g per LSB
	magSensitivity   = 0.014    // µT per LSB, ±4 gauss
)

type LSM9DS1 struct {
	accelGyro    Bus
	magnetometer Bus
}

// NewLSM9DS1 verifies both chip identities and brings them into continuous measurement
func NewLSM9DS1(accelGyro, magnetometer Bus) (*LSM9DS1, error) {
	err := checkWhoAmI(accelGyro, agWhoAmI, agWhoAmIValue)
	if err != nil {
		return nil, fmt.Errorf("LSM9DS1 accelerometer/gyroscope: %w", err)
	}
	err = checkWhoAmI(magnetometer, mWhoAmI, mWhoAmIValue)
	if err != nil {
		return nil, fmt.Errorf("LSM9DS1 magnetometer: %w", err)
	}

	err = writeRegs(accelGyro,
		[2]byte{ctrlReg1G, gyroConfig},
		[2]byte{ctrlReg6XL, accelConfig},
	)
	if err != nil {
		return nil, fmt.Errorf("LSM9DS1 accelerometer/gyroscope: %w", err)
	}

	err = writeRegs(magnetometer,
		[2]byte{ctrlReg1M, 0x70}, // ultra-high performance XY, 10 Hz
		[2]byte{ctrlReg2M, 0x00}, // ±4 gauss
		[2]byte{ctrlReg3M, 0x00}, // continuous conversion
		[2]byte{ctrlReg4M, 0x0C}, // ultra-high performance Z
	)
	if err != nil {
		return nil, fmt.Errorf("LSM9DS1 magnetometer: %w", err)
	}

	return &LSM9DS1{accelGyro: accelGyro, magnetometer: magnetometer}, nil
}

func readVector(bus Bus, base byte, scale float64) (Vector, error) {
	var out [3]float64
	for i := range out {
		low := base + byte(i*2)
		v, err := readS16(bus, low, low+1)
		if err != nil {
			return Vector{}, err
		}
		out[i] = float64(v) * scale
	}
	return Vector{X: out[0], Y: out[1], Z: out[2]}, nil
}

// Gyroscope returns angular velocity in rad/s
func (l *LSM9DS1) Gyroscope() (Vector, error) {
	v, err := readVector(l.accelGyro, outXLG, gyroSensitivity*math.Pi/180)
	if err != nil {
		return Vector{}, fmt.Errorf("LSM9DS1 gyroscope: %w", err)
	}
	return v, nil
}

// Accelerometer returns acceleration in g
func (l *LSM9DS1) Accelerometer() (Vector, error) {
	v, err := readVector(l.accelGyro, outXLXL, accelSensitivity)
	if err != nil {
		return Vector{}, fmt.Errorf("LSM9DS1 accelerometer: %w", err)
	}
	return v, nil
}

// Magnetometer returns field strength in µT
func (l *LSM9DS1) Magnetometer() (Vector, error) {
	v, err := readVector(l.magnetometer, outXLM, magSensitivity)
	if err != nil {
		return Vector{}, fmt.Errorf("LSM9DS1 magnetometer: %w", err)
	}
	return v, nil
}
