package chair

// Capability interfaces for the wheelchair subsystems. The emulator package
// provides the concrete implementations; a hardware port would supply its own
// behind the same contracts.

// Drive moves the chair: stores clamped motor targets, advances them under
// acceleration limits, and integrates pose into the shared state.
type Drive interface {
	SetMotorSpeeds(left, right float64)
	MotorSpeeds() (left, right float64)
	EmergencyStop()
	Update(dt float64)
	PowerDraw() float64
}

// Controller produces operator intent once per tick.
type Controller interface {
	ReadInput() ControllerInput
	Connected() bool
}

// Sensors derives noisy readings from the shared state.
type Sensors interface {
	ReadSensors() SensorData
	Update(dt float64)
}

// Power integrates consumption into battery voltage and percent.
type Power interface {
	Voltage() float64
	Percent() float64
	Update(dt, powerDraw float64)
}

// Safety yields a go/no-go verdict and an optional speed-scaling factor.
// now is simulation time in seconds, not wall time.
type Safety interface {
	CheckSafety(state *WheelchairState, sensors SensorData, input ControllerInput, now float64) bool
	ShouldLimitSpeed(state *WheelchairState, sensors SensorData) (float64, bool)
}
