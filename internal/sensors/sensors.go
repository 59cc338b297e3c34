// Package sensors emulates the IMU and proximity suite. All randomness is
// drawn from a single seeded stream so identical seeds reproduce identical
// readings exactly.
package sensors

import (
	"fmt"
	"math/rand"

	"github.com/davral/wheelsim/internal/chair"
	"github.com/davral/wheelsim/internal/config"
)

const gravity = 9.81 // m/s^2, vertical accelerometer baseline

// obstacleChance is the per-update probability that a proximity channel
// reports a random obstacle instead of clearing.
const obstacleChance = 0.1

type Suite struct {
	cfg   config.SensorConfig
	state *chair.WheelchairState
	rng   *rand.Rand

	data               chair.SensorData
	sinceProximityScan float64
}

// New creates a suite reading from state. seed 0 is a valid fixed seed; the
// caller decides whether to derive one from the clock.
func New(cfg config.SensorConfig, state *chair.WheelchairState, seed int64) *Suite {
	return &Suite{
		cfg:   cfg,
		state: state,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (s *Suite) ReadSensors() chair.SensorData {
	return s.data
}

// Update recomputes IMU channels every tick and proximity channels at their
// own, slower rate.
func (s *Suite) Update(dt float64) {
	// The model does not track translational acceleration history, so the
	// horizontal accelerometer axes carry noise around zero.
	s.data.AccelX = s.noisy(0, s.cfg.IMUNoiseStddev)
	s.data.AccelY = s.noisy(0, s.cfg.IMUNoiseStddev)
	s.data.AccelZ = s.noisy(gravity, s.cfg.IMUNoiseStddev)

	s.data.GyroX = s.noisy(0, s.cfg.IMUNoiseStddev)
	s.data.GyroY = s.noisy(0, s.cfg.IMUNoiseStddev)
	s.data.GyroZ = s.noisy(s.state.AngularVelocity, s.cfg.IMUNoiseStddev)

	s.sinceProximityScan += dt
	if s.sinceProximityScan >= 1.0/s.cfg.ProximityUpdateRate {
		s.sinceProximityScan = 0
		s.scanProximity()
	}
}

// scanProximity rolls each channel independently: a random in-range obstacle
// or a cleared reading. A world model would replace this.
func (s *Suite) scanProximity() {
	for _, ch := range []*chair.Proximity{&s.data.Front, &s.data.Rear, &s.data.Left, &s.data.Right} {
		if s.rng.Float64() < obstacleChance {
			distance := 0.5 + s.rng.Float64()*(s.cfg.ProximityRange-0.5)
			distance = s.noisy(distance, s.cfg.ProximityNoiseStddev)
			ch.Distance = chair.Clamp(distance, 0, s.cfg.ProximityRange)
			ch.Detected = true
		} else {
			*ch = chair.Proximity{}
		}
	}
}

func (s *Suite) noisy(value, stddev float64) float64 {
	return value + s.rng.NormFloat64()*stddev
}

// InjectObstacle overrides one proximity channel for deterministic tests.
// The distance is clamped into range; an unknown direction is an error, not
// a clamp.
func (s *Suite) InjectObstacle(dir chair.Direction, distance float64) error {
	ch, err := s.channel(dir)
	if err != nil {
		return err
	}
	ch.Distance = chair.Clamp(distance, 0, s.cfg.ProximityRange)
	ch.Detected = true
	return nil
}

// ClearObstacles resets every proximity channel to "no detection".
func (s *Suite) ClearObstacles() {
	s.data.Front = chair.Proximity{}
	s.data.Rear = chair.Proximity{}
	s.data.Left = chair.Proximity{}
	s.data.Right = chair.Proximity{}
}

func (s *Suite) channel(dir chair.Direction) (*chair.Proximity, error) {
	switch dir {
	case chair.Front:
		return &s.data.Front, nil
	case chair.Rear:
		return &s.data.Rear, nil
	case chair.Left:
		return &s.data.Left, nil
	case chair.Right:
		return &s.data.Right, nil
	default:
		return nil, fmt.Errorf("%w: %q", chair.ErrUnknownDirection, dir)
	}
}
