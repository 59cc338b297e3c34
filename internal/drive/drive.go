// Package drive simulates a differential-drive motor pair with acceleration
// limits and integrates the chair's pose into the shared state.
package drive

import (
	"math"

	"github.com/davral/wheelsim/internal/chair"
	"github.com/davral/wheelsim/internal/config"
)

type Drive struct {
	cfg   config.WheelchairConfig
	power config.PowerConfig
	state *chair.WheelchairState

	targetLeft   float64
	targetRight  float64
	currentLeft  float64
	currentRight float64
}

func New(cfg config.WheelchairConfig, power config.PowerConfig, state *chair.WheelchairState) *Drive {
	return &Drive{cfg: cfg, power: power, state: state}
}

// SetMotorSpeeds stores clamped normalized targets.
func (d *Drive) SetMotorSpeeds(left, right float64) {
	d.targetLeft = chair.Clamp(left, -1, 1)
	d.targetRight = chair.Clamp(right, -1, 1)
}

func (d *Drive) MotorSpeeds() (left, right float64) {
	return d.currentLeft, d.currentRight
}

// EmergencyStop zeroes targets, actuals, and state velocities immediately.
// Unlike normal commands it bypasses the acceleration ramp.
func (d *Drive) EmergencyStop() {
	d.targetLeft = 0
	d.targetRight = 0
	d.currentLeft = 0
	d.currentRight = 0
	d.state.LeftMotorSpeed = 0
	d.state.RightMotorSpeed = 0
	d.state.LinearVelocity = 0
	d.state.AngularVelocity = 0
	d.state.EmergencyStop = true
}

// Update advances motor speeds toward their targets under the acceleration
// limit, then integrates pose with explicit Euler.
func (d *Drive) Update(dt float64) {
	// Normalized speed change per step. MaxVelocity is validated nonzero.
	maxChange := d.cfg.MaxAcceleration * dt / d.cfg.MaxVelocity
	d.currentLeft = approach(d.currentLeft, d.targetLeft, maxChange)
	d.currentRight = approach(d.currentRight, d.targetRight, maxChange)

	d.state.LeftMotorSpeed = d.currentLeft
	d.state.RightMotorSpeed = d.currentRight

	leftVel := d.currentLeft * d.cfg.MaxVelocity
	rightVel := d.currentRight * d.cfg.MaxVelocity

	d.state.LinearVelocity = (leftVel + rightVel) / 2.0
	d.state.AngularVelocity = (rightVel - leftVel) / d.cfg.Wheelbase

	if math.Abs(d.state.AngularVelocity) > d.cfg.MaxAngularVelocity {
		d.state.AngularVelocity = math.Copysign(d.cfg.MaxAngularVelocity, d.state.AngularVelocity)
	}

	d.state.X += d.state.LinearVelocity * math.Cos(d.state.Theta) * dt
	d.state.Y += d.state.LinearVelocity * math.Sin(d.state.Theta) * dt
	d.state.Theta = chair.NormalizeAngle(d.state.Theta + d.state.AngularVelocity*dt)
}

// approach moves current toward target by at most maxChange.
func approach(current, target, maxChange float64) float64 {
	delta := target - current
	if math.Abs(delta) <= maxChange {
		return target
	}
	return current + math.Copysign(maxChange, delta)
}

// PowerDraw estimates consumption in watts: idle baseline plus a term
// proportional to average motor speed and mass, derated by motor efficiency.
func (d *Drive) PowerDraw() float64 {
	avgSpeed := (math.Abs(d.currentLeft) + math.Abs(d.currentRight)) / 2.0
	return d.power.IdlePower + avgSpeed*d.cfg.Mass*0.5/d.power.MotorEfficiency
}
