// Package safety composes the independent stop conditions: emergency stop,
// deadman confirmation age, and direction-aware collision risk. Time is
// simulation time passed by the caller, never the wall clock, so tests can
// fast-forward the deadman timeout.
package safety

import (
	"github.com/davral/wheelsim/internal/chair"
	"github.com/davral/wheelsim/internal/config"
)

// movingThreshold is the linear velocity below which the chair counts as
// stationary for collision checks.
const movingThreshold = 0.1

type Monitor struct {
	cfg config.SafetyConfig

	lastConfirmed float64
	deadmanActive bool
	everArmed     bool
}

func New(cfg config.SafetyConfig) *Monitor {
	return &Monitor{cfg: cfg}
}

// CheckSafety returns false when the chair must stop. The deadman switch only
// becomes mandatory once it has been pressed at least once; until then an
// idle controller is safe.
func (m *Monitor) CheckSafety(state *chair.WheelchairState, sensors chair.SensorData, input chair.ControllerInput, now float64) bool {
	if input.EmergencyStop {
		return false
	}

	if input.DeadmanPressed {
		m.lastConfirmed = now
		m.deadmanActive = true
	} else if now-m.lastConfirmed > m.cfg.DeadmanTimeout {
		m.deadmanActive = false
	}

	if !m.deadmanActive && m.everArmed {
		return false
	}
	if input.DeadmanPressed {
		m.everArmed = true
	}

	if m.collisionRisk(state, sensors) {
		return false
	}
	return true
}

// collisionRisk is direction-aware: an obstacle behind a forward-moving chair
// does not trigger a stop.
func (m *Monitor) collisionRisk(state *chair.WheelchairState, sensors chair.SensorData) bool {
	if state.LinearVelocity > movingThreshold &&
		sensors.Front.Detected && sensors.Front.Distance < m.cfg.ObstacleStopDistance {
		return true
	}
	if state.LinearVelocity < -movingThreshold &&
		sensors.Rear.Detected && sensors.Rear.Distance < m.cfg.ObstacleStopDistance {
		return true
	}
	return false
}

// ShouldLimitSpeed returns a factor in [0, 1] to scale commanded speed near
// obstacles, and false when no limiting applies. It is independent of
// CheckSafety.
func (m *Monitor) ShouldLimitSpeed(state *chair.WheelchairState, sensors chair.SensorData) (float64, bool) {
	minDistance, any := m.minObstacleDistance(state, sensors)
	if !any {
		return 0, false
	}

	if minDistance < m.cfg.ObstacleStopDistance {
		return 0.0, true
	}
	if minDistance < m.cfg.ObstacleSlowDistance {
		span := m.cfg.ObstacleSlowDistance - m.cfg.ObstacleStopDistance
		factor := (minDistance - m.cfg.ObstacleStopDistance) / span
		return chair.Clamp(factor, 0, 1), true
	}
	return 0, false
}

// minObstacleDistance gates front/rear by direction of travel; the side
// channels always count.
func (m *Monitor) minObstacleDistance(state *chair.WheelchairState, sensors chair.SensorData) (float64, bool) {
	var readings []chair.Proximity

	if state.LinearVelocity > movingThreshold {
		readings = append(readings, sensors.Front)
	} else if state.LinearVelocity < -movingThreshold {
		readings = append(readings, sensors.Rear)
	}
	readings = append(readings, sensors.Left, sensors.Right)

	min := 0.0
	any := false
	for _, r := range readings {
		if !r.Detected {
			continue
		}
		if !any || r.Distance < min {
			min = r.Distance
			any = true
		}
	}
	return min, any
}

// Reset clears the armed latch and confirmation state.
func (m *Monitor) Reset() {
	m.lastConfirmed = 0
	m.deadmanActive = false
	m.everArmed = false
}
