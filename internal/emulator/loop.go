// Package emulator wires the wheelchair subsystems into a fixed-timestep
// simulation loop. One tick is fully processed before the next begins; the
// shared state is owned by the loop and handed to external readers only as
// snapshots.
package emulator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/davral/wheelsim/internal/chair"
	"github.com/davral/wheelsim/internal/config"
)

// minDt floors the timestep so a pathological update rate cannot produce a
// zero divisor downstream.
const minDt = 1e-6

// pausePoll is how often a paused run rechecks its flags.
const pausePoll = 10 * time.Millisecond

// Callback is invoked after every completed tick. The state reference is
// only valid for the duration of the call.
type Callback func(state *chair.WheelchairState, dt float64)

// Loop coordinates one tick across controller, sensors, safety, drive, and
// power in a fixed order.
type Loop struct {
	cfg        *config.Config
	drive      chair.Drive
	controller chair.Controller
	sensors    chair.Sensors
	power      chair.Power
	safety     chair.Safety
	state      *chair.WheelchairState

	dt        float64
	running   atomic.Bool
	paused    atomic.Bool
	mu        sync.Mutex
	stepCount uint64
	simTime   float64
	callbacks []Callback
}

func NewLoop(
	cfg *config.Config,
	drv chair.Drive,
	ctrl chair.Controller,
	sns chair.Sensors,
	pwr chair.Power,
	sfy chair.Safety,
	state *chair.WheelchairState,
) *Loop {
	dt := cfg.Dt()
	if dt < minDt {
		dt = minDt
	}
	return &Loop{
		cfg:        cfg,
		drive:      drv,
		controller: ctrl,
		sensors:    sns,
		power:      pwr,
		safety:     sfy,
		state:      state,
		dt:         dt,
	}
}

// AddCallback registers a per-tick observer. Not safe to call while the loop
// is running.
func (l *Loop) AddCallback(cb Callback) {
	l.callbacks = append(l.callbacks, cb)
}

// Step executes one simulation tick: controller, sensors, safety verdict,
// drive (or emergency stop), power, bookkeeping, callbacks. It never blocks.
func (l *Loop) Step() {
	l.mu.Lock()

	dt := l.dt
	input := l.controller.ReadInput()

	l.sensors.Update(dt)
	sensorData := l.sensors.ReadSensors()

	safe := l.safety.CheckSafety(l.state, sensorData, input, l.simTime)
	limit, limited := l.safety.ShouldLimitSpeed(l.state, sensorData)

	l.state.DeadmanActive = input.DeadmanPressed

	if !safe || input.EmergencyStop {
		l.drive.EmergencyStop()
	} else {
		left, right := mixMotors(input.Linear, input.Angular)
		if limited {
			left *= limit
			right *= limit
		}
		l.drive.SetMotorSpeeds(left, right)
	}

	l.drive.Update(dt)
	l.power.Update(dt, l.drive.PowerDraw())

	l.state.BatteryVoltage = l.power.Voltage()
	l.state.BatteryPercent = l.power.Percent()

	l.simTime += dt
	l.stepCount++

	l.mu.Unlock()

	for _, cb := range l.callbacks {
		cb(l.state, dt)
	}
}

// mixMotors converts linear/angular intent into differential motor speeds,
// renormalized when either wheel exceeds unit magnitude.
func mixMotors(linear, angular float64) (left, right float64) {
	left = linear - angular
	right = linear + angular

	max := maxAbs(left, right)
	if max > 1.0 {
		left /= max
		right /= max
	}
	return left, right
}

func maxAbs(a, b float64) float64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}

// Run steps the loop at the configured update rate until duration simulated
// seconds elapse (duration <= 0 means unbounded), the context is canceled,
// or Stop is called. Slack time within each tick is slept away, scaled by
// the realtime factor.
func (l *Loop) Run(ctx context.Context, duration float64) error {
	l.running.Store(true)
	l.paused.Store(false)
	defer l.running.Store(false)

	pace := time.Duration(l.dt / l.cfg.Simulation.RealtimeFactor * float64(time.Second))

	for l.running.Load() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if l.paused.Load() {
			time.Sleep(pausePoll)
			continue
		}

		start := time.Now()
		l.Step()

		if duration > 0 && l.SimTime() >= duration {
			break
		}

		if elapsed := time.Since(start); elapsed < pace {
			time.Sleep(pace - elapsed)
		}
	}
	return nil
}

// Stop requests a cooperative stop; an in-flight step always completes.
func (l *Loop) Stop() { l.running.Store(false) }

func (l *Loop) Pause()  { l.paused.Store(true) }
func (l *Loop) Resume() { l.paused.Store(false) }

// Reset zeroes the clock and step counter, restores the shared state to
// defaults, and resets any subsystems that carry run state.
func (l *Loop) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stepCount = 0
	l.simTime = 0
	*l.state = chair.DefaultState()

	if r, ok := l.power.(interface{ Reset() }); ok {
		r.Reset()
	}
	if r, ok := l.safety.(interface{ Reset() }); ok {
		r.Reset()
	}
}

// Snapshot returns an immutable copy of the shared state.
func (l *Loop) Snapshot() chair.WheelchairState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.state
}

func (l *Loop) SimTime() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.simTime
}

func (l *Loop) Stats() chair.Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return chair.Stats{
		StepCount: l.stepCount,
		SimTime:   l.simTime,
		Running:   l.running.Load(),
		Paused:    l.paused.Load(),
	}
}

// Dt is the fixed timestep the loop advances by each tick.
func (l *Loop) Dt() float64 { return l.dt }
