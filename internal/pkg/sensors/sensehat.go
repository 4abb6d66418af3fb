package sensors

import (
	"context"
	"fmt"
	"sync"

	"github.com/gethiox/sensehat/internal/pkg/clock"
	"github.com/gethiox/sensehat/internal/pkg/logger"
)

// SenseHat gives flat access to every sensor on the board
type SenseHat struct {
	humidity *HTS221
	pressure *LPS25H

	accelGyro, magnetometer Bus
	imuOnce                 sync.Once
	imu                     *LSM9DS1
	imuErr                  error

	buses []Bus
}

// Open opens every chip described by cfg, the IMU is configured on first use
func Open(cfg Config) (*SenseHat, error) {
	var buses []Bus
	for _, addr := range []uint8{cfg.Humidity, cfg.Pressure, cfg.IMU, cfg.Magnetometer} {
		b, err := OpenBus(addr, cfg.Bus)
		if err != nil {
			_ = closeAll(buses...)
			return nil, err
		}
		buses = append(buses, b)
	}
	log.Info(fmt.Sprintf("sensors opened on i2c-%d", cfg.Bus), logger.Debug)
	return New(buses[0], buses[1], buses[2], buses[3], clock.Real{}), nil
}

func New(humidity, pressure, accelGyro, magnetometer Bus, sleeper clock.Sleeper) *SenseHat {
	return &SenseHat{
		humidity:     NewHTS221(humidity, sleeper),
		pressure:     NewLPS25H(pressure, sleeper),
		accelGyro:    accelGyro,
		magnetometer: magnetometer,
		buses:        []Bus{humidity, pressure, accelGyro, magnetometer},
	}
}

func (s *SenseHat) lsm() (*LSM9DS1, error) {
	s.imuOnce.Do(func() {
		s.imu, s.imuErr = NewLSM9DS1(s.accelGyro, s.magnetometer)
		if s.imuErr == nil {
			log.Info("IMU configured", logger.Debug)
		}
	})
	return s.imu, s.imuErr
}

func (s *SenseHat) GyroscopeRaw() (Vector, error) {
	imu, err := s.lsm()
	if err != nil {
		return Vector{}, err
	}
	return imu.Gyroscope()
}

func (s *SenseHat) AccelerometerRaw() (Vector, error) {
	imu, err := s.lsm()
	if err != nil {
		return Vector{}, err
	}
	return imu.Accelerometer()
}

func (s *SenseHat) CompassRaw() (Vector, error) {
	imu, err := s.lsm()
	if err != nil {
		return Vector{}, err
	}
	return imu.Magnetometer()
}

func (s *SenseHat) OrientationRadians() (Orientation, error) {
	accel, err := s.AccelerometerRaw()
	if err != nil {
		return Orientation{}, err
	}
	mag, err := s.CompassRaw()
	if err != nil {
		return Orientation{}, err
	}
	return orientationFrom(accel, mag), nil
}

func (s *SenseHat) Orientation() (Orientation, error) {
	o, err := s.OrientationRadians()
	if err != nil {
		return Orientation{}, err
	}
	return o.Degrees(), nil
}

// Compass returns the heading to magnetic north in degrees
func (s *SenseHat) Compass() (float64, error) {
	o, err := s.Orientation()
	if err != nil {
		return 0, err
	}
	return o.Yaw, nil
}

func (s *SenseHat) Humidity(ctx context.Context) (float64, error) {
	return s.humidity.Humidity(ctx)
}

func (s *SenseHat) TemperatureFromHumidity(ctx context.Context) (float64, error) {
	return s.humidity.Temperature(ctx)
}

func (s *SenseHat) TemperatureFromPressure(ctx context.Context) (float64, error) {
	return s.pressure.Temperature(ctx)
}

func (s *SenseHat) Temperature(ctx context.Context) (float64, error) {
	return s.TemperatureFromHumidity(ctx)
}

// Pressure in millibar
func (s *SenseHat) Pressure(ctx context.Context) (float64, error) {
	return s.pressure.Pressure(ctx)
}

func (s *SenseHat) Close() error {
	return closeAll(s.buses...)
}
