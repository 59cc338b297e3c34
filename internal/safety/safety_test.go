package safety

import (
	"math"
	"testing"

	"github.com/davral/wheelsim/internal/chair"
	"github.com/davral/wheelsim/internal/config"
)

func newTestMonitor() *Monitor {
	return New(config.DefaultConfig().Safety)
}

func TestEmergencyStopAlwaysUnsafe(t *testing.T) {
	m := newTestMonitor()
	state := chair.DefaultState()

	input := chair.ControllerInput{EmergencyStop: true, DeadmanPressed: true}
	if m.CheckSafety(&state, chair.SensorData{}, input, 0) {
		t.Error("emergency stop input must be unsafe")
	}
}

func TestSafeBeforeDeadmanEverPressed(t *testing.T) {
	m := newTestMonitor()
	state := chair.DefaultState()

	// the deadman requirement only latches on after first use
	for _, now := range []float64{0, 1, 100, 1e6} {
		if !m.CheckSafety(&state, chair.SensorData{}, chair.ControllerInput{}, now) {
			t.Fatalf("expected safe at t=%v before deadman ever pressed", now)
		}
	}
}

func TestDeadmanTimeout(t *testing.T) {
	m := newTestMonitor()
	state := chair.DefaultState()

	pressed := chair.ControllerInput{DeadmanPressed: true}
	released := chair.ControllerInput{}

	if !m.CheckSafety(&state, chair.SensorData{}, pressed, 0) {
		t.Fatal("expected safe while deadman pressed")
	}

	// within the 0.5 s timeout
	if !m.CheckSafety(&state, chair.SensorData{}, released, 0.3) {
		t.Error("expected safe within deadman timeout")
	}

	// past the timeout
	if m.CheckSafety(&state, chair.SensorData{}, released, 0.7) {
		t.Error("expected unsafe after deadman timeout")
	}

	// pressing again restores safety
	if !m.CheckSafety(&state, chair.SensorData{}, pressed, 0.8) {
		t.Error("expected safe after re-confirmation")
	}
}

func TestCollisionRiskDirectionAware(t *testing.T) {
	tests := []struct {
		name     string
		velocity float64
		sensors  chair.SensorData
		safe     bool
	}{
		{"forward into front obstacle", 1.0, chair.SensorData{Front: chair.Obstacle(0.3)}, false},
		{"forward with rear obstacle", 1.0, chair.SensorData{Rear: chair.Obstacle(0.3)}, true},
		{"backward into rear obstacle", -1.0, chair.SensorData{Rear: chair.Obstacle(0.3)}, false},
		{"backward with front obstacle", -1.0, chair.SensorData{Front: chair.Obstacle(0.3)}, true},
		{"stationary near front obstacle", 0.0, chair.SensorData{Front: chair.Obstacle(0.3)}, true},
		{"forward, front obstacle beyond stop distance", 1.0, chair.SensorData{Front: chair.Obstacle(0.8)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMonitor()
			state := chair.DefaultState()
			state.LinearVelocity = tt.velocity

			got := m.CheckSafety(&state, tt.sensors, chair.ControllerInput{}, 0)
			if got != tt.safe {
				t.Errorf("expected safe=%v, got %v", tt.safe, got)
			}
		})
	}
}

func TestShouldLimitSpeed(t *testing.T) {
	tests := []struct {
		name     string
		velocity float64
		sensors  chair.SensorData
		factor   float64
		limited  bool
	}{
		{"no obstacles", 1.0, chair.SensorData{}, 0, false},
		{"front obstacle inside stop distance", 1.0, chair.SensorData{Front: chair.Obstacle(0.3)}, 0.0, true},
		{"front obstacle mid slow zone", 1.0, chair.SensorData{Front: chair.Obstacle(1.0)}, 0.5, true},
		{"front obstacle beyond slow distance", 1.0, chair.SensorData{Front: chair.Obstacle(2.0)}, 0, false},
		{"front obstacle while stationary", 0.0, chair.SensorData{Front: chair.Obstacle(0.3)}, 0, false},
		{"rear obstacle while moving forward", 1.0, chair.SensorData{Rear: chair.Obstacle(0.3)}, 0, false},
		{"rear obstacle while reversing", -1.0, chair.SensorData{Rear: chair.Obstacle(1.0)}, 0.5, true},
		{"side obstacle always counts", 0.0, chair.SensorData{Left: chair.Obstacle(1.0)}, 0.5, true},
		{"closest obstacle wins", 1.0, chair.SensorData{Front: chair.Obstacle(1.4), Right: chair.Obstacle(0.6)}, 0.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMonitor()
			state := chair.DefaultState()
			state.LinearVelocity = tt.velocity

			factor, limited := m.ShouldLimitSpeed(&state, tt.sensors)
			if limited != tt.limited {
				t.Fatalf("expected limited=%v, got %v", tt.limited, limited)
			}
			if limited && math.Abs(factor-tt.factor) > 1e-9 {
				t.Errorf("expected factor %v, got %v", tt.factor, factor)
			}
		})
	}
}

func TestStopScenarioBothVerdicts(t *testing.T) {
	// obstacle at 0.3 m with stop distance 0.5 while moving forward must
	// yield a zero speed factor and an unsafe verdict
	m := newTestMonitor()
	state := chair.DefaultState()
	state.LinearVelocity = 0.5
	sensors := chair.SensorData{Front: chair.Obstacle(0.3)}

	factor, limited := m.ShouldLimitSpeed(&state, sensors)
	if !limited || factor != 0.0 {
		t.Errorf("expected hard speed limit, got factor=%v limited=%v", factor, limited)
	}
	if m.CheckSafety(&state, sensors, chair.ControllerInput{}, 0) {
		t.Error("expected unsafe verdict")
	}
}

func TestResetClearsArmedState(t *testing.T) {
	m := newTestMonitor()
	state := chair.DefaultState()

	m.CheckSafety(&state, chair.SensorData{}, chair.ControllerInput{DeadmanPressed: true}, 0)
	if m.CheckSafety(&state, chair.SensorData{}, chair.ControllerInput{}, 10) {
		t.Fatal("expected unsafe after timeout while armed")
	}

	m.Reset()

	if !m.CheckSafety(&state, chair.SensorData{}, chair.ControllerInput{}, 20) {
		t.Error("expected safe after reset cleared the armed latch")
	}
}
