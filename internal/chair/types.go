package chair

import "math"

// WheelchairState is the shared record all subsystems communicate through.
// It is owned by the simulation loop; external readers get copies.
type WheelchairState struct {
	// Pose and velocity (meters, radians, m/s, rad/s)
	X               float64
	Y               float64
	Theta           float64
	LinearVelocity  float64
	AngularVelocity float64

	// Motor speeds, normalized to [-1, 1]
	LeftMotorSpeed  float64
	RightMotorSpeed float64

	// Safety
	EmergencyStop bool
	DeadmanActive bool

	// Battery
	BatteryVoltage float64
	BatteryPercent float64
}

// DefaultState returns a fresh state at the origin with a full battery.
func DefaultState() WheelchairState {
	return WheelchairState{
		BatteryVoltage: 24.0,
		BatteryPercent: 100.0,
	}
}

// IsFinite reports whether every numeric field is a real number.
func (s *WheelchairState) IsFinite() bool {
	for _, v := range []float64{
		s.X, s.Y, s.Theta,
		s.LinearVelocity, s.AngularVelocity,
		s.LeftMotorSpeed, s.RightMotorSpeed,
		s.BatteryVoltage, s.BatteryPercent,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Proximity is one ranging channel. Detected is false when the sensor sees
// nothing in range, in which case Distance is meaningless.
type Proximity struct {
	Distance float64
	Detected bool
}

// Obstacle returns a detected reading at the given distance.
func Obstacle(distance float64) Proximity {
	return Proximity{Distance: distance, Detected: true}
}

// SensorData holds one tick of IMU and proximity readings.
type SensorData struct {
	AccelX float64
	AccelY float64
	AccelZ float64
	GyroX  float64
	GyroY  float64
	GyroZ  float64

	Front Proximity
	Rear  Proximity
	Left  Proximity
	Right Proximity
}

// Direction names a proximity channel.
type Direction string

const (
	Front Direction = "front"
	Rear  Direction = "rear"
	Left  Direction = "left"
	Right Direction = "right"
)

// ControllerInput is normalized operator intent plus button states.
type ControllerInput struct {
	Linear  float64 // forward/backward, [-1, 1]
	Angular float64 // turn, [-1, 1]

	EmergencyStop  bool
	DeadmanPressed bool
	ModeSwitch     bool
}

// DriveMode selects how operator input is interpreted.
type DriveMode string

const (
	ModeManual     DriveMode = "manual"
	ModeAssisted   DriveMode = "assisted"
	ModeAutonomous DriveMode = "autonomous"
)

// Next cycles manual -> assisted -> autonomous -> manual.
func (m DriveMode) Next() DriveMode {
	switch m {
	case ModeManual:
		return ModeAssisted
	case ModeAssisted:
		return ModeAutonomous
	default:
		return ModeManual
	}
}

// Stats is a snapshot of loop progress.
type Stats struct {
	StepCount uint64
	SimTime   float64
	Running   bool
	Paused    bool
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NormalizeAngle wraps an angle into (-pi, pi].
func NormalizeAngle(theta float64) float64 {
	return math.Atan2(math.Sin(theta), math.Cos(theta))
}
