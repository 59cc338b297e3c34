package chair

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{0.5, -1, 1, 0.5},
		{2.0, -1, 1, 1.0},
		{-3.0, -1, 1, -1.0},
		{150, 0, 100, 100},
		{-1, 0, 100, 0},
	}

	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		theta, want float64
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{2 * math.Pi, 0},
		{3 * math.Pi, math.Pi},
		{5 * math.Pi / 2, math.Pi / 2},
		{-math.Pi / 4, -math.Pi / 4},
	}

	for _, tt := range tests {
		got := NormalizeAngle(tt.theta)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.theta, got, tt.want)
		}
		if got <= -math.Pi || got > math.Pi {
			t.Errorf("NormalizeAngle(%v) = %v outside (-pi, pi]", tt.theta, got)
		}
	}
}

func TestStateIsFinite(t *testing.T) {
	s := DefaultState()
	if !s.IsFinite() {
		t.Error("default state should be finite")
	}

	s.X = math.NaN()
	if s.IsFinite() {
		t.Error("NaN position should not be finite")
	}

	s = DefaultState()
	s.LinearVelocity = math.Inf(1)
	if s.IsFinite() {
		t.Error("infinite velocity should not be finite")
	}
}

func TestDriveModeNext(t *testing.T) {
	m := ModeManual
	for i, want := range []DriveMode{ModeAssisted, ModeAutonomous, ModeManual} {
		m = m.Next()
		if m != want {
			t.Fatalf("cycle step %d: got %v, want %v", i, m, want)
		}
	}
}
