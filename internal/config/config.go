package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/davral/wheelsim/internal/chair"
)

const (
	DefaultWheelbase       = 0.6
	DefaultWheelRadius     = 0.15
	DefaultMaxVelocity     = 2.0
	DefaultMaxAcceleration = 1.0
	DefaultMaxAngularVel   = 1.5
	DefaultMass            = 100.0
	DefaultUpdateRate      = 50.0
)

// WheelchairConfig holds the physical parameters of the chair.
type WheelchairConfig struct {
	Wheelbase          float64 `yaml:"wheelbase"`            // meters between wheels
	WheelRadius        float64 `yaml:"wheel_radius"`         // meters
	MaxVelocity        float64 `yaml:"max_velocity"`         // m/s
	MaxAcceleration    float64 `yaml:"max_acceleration"`     // m/s^2
	MaxAngularVelocity float64 `yaml:"max_angular_velocity"` // rad/s
	Mass               float64 `yaml:"mass"`                 // kg
}

type SensorConfig struct {
	IMUNoiseStddev       float64 `yaml:"imu_noise_stddev"`
	ProximityRange       float64 `yaml:"proximity_range"`        // meters
	ProximityNoiseStddev float64 `yaml:"proximity_noise_stddev"` // meters
	ProximityUpdateRate  float64 `yaml:"proximity_update_rate"`  // Hz
}

type PowerConfig struct {
	BatteryCapacity float64 `yaml:"battery_capacity"` // amp-hours
	NominalVoltage  float64 `yaml:"nominal_voltage"`
	MinVoltage      float64 `yaml:"min_voltage"`
	MaxVoltage      float64 `yaml:"max_voltage"`
	IdlePower       float64 `yaml:"idle_power"` // watts
	MotorEfficiency float64 `yaml:"motor_efficiency"`
}

type SafetyConfig struct {
	DeadmanTimeout       float64 `yaml:"deadman_timeout"`        // seconds
	ObstacleStopDistance float64 `yaml:"obstacle_stop_distance"` // meters
	ObstacleSlowDistance float64 `yaml:"obstacle_slow_distance"` // meters
	MaxSafeSpeed         float64 `yaml:"max_safe_speed"`         // m/s
}

type SimulationConfig struct {
	UpdateRate     float64 `yaml:"update_rate"` // Hz
	RealtimeFactor float64 `yaml:"realtime_factor"`
	Seed           int64   `yaml:"seed"` // 0 means time-based
}

// Config is the complete emulator configuration, immutable once loaded.
type Config struct {
	Wheelchair WheelchairConfig `yaml:"wheelchair"`
	Sensors    SensorConfig     `yaml:"sensors"`
	Power      PowerConfig      `yaml:"power"`
	Safety     SafetyConfig     `yaml:"safety"`
	Simulation SimulationConfig `yaml:"simulation"`
}

func DefaultConfig() *Config {
	return &Config{
		Wheelchair: WheelchairConfig{
			Wheelbase:          DefaultWheelbase,
			WheelRadius:        DefaultWheelRadius,
			MaxVelocity:        DefaultMaxVelocity,
			MaxAcceleration:    DefaultMaxAcceleration,
			MaxAngularVelocity: DefaultMaxAngularVel,
			Mass:               DefaultMass,
		},
		Sensors: SensorConfig{
			IMUNoiseStddev:       0.01,
			ProximityRange:       5.0,
			ProximityNoiseStddev: 0.05,
			ProximityUpdateRate:  10.0,
		},
		Power: PowerConfig{
			BatteryCapacity: 50.0,
			NominalVoltage:  24.0,
			MinVoltage:      20.0,
			MaxVoltage:      29.4,
			IdlePower:       10.0,
			MotorEfficiency: 0.8,
		},
		Safety: SafetyConfig{
			DeadmanTimeout:       0.5,
			ObstacleStopDistance: 0.5,
			ObstacleSlowDistance: 1.5,
			MaxSafeSpeed:         1.0,
		},
		Simulation: SimulationConfig{
			UpdateRate:     DefaultUpdateRate,
			RealtimeFactor: 1.0,
		},
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values that would make an integration step degenerate.
// Several of these end up as divisors, so zero is a hard failure rather than
// something to clamp.
func (c *Config) Validate() error {
	fail := func(field string, v float64) error {
		return fmt.Errorf("%w: %s = %g", chair.ErrInvalidConfig, field, v)
	}

	if c.Wheelchair.MaxVelocity <= 0 {
		return fail("wheelchair.max_velocity", c.Wheelchair.MaxVelocity)
	}
	if c.Wheelchair.Wheelbase <= 0 {
		return fail("wheelchair.wheelbase", c.Wheelchair.Wheelbase)
	}
	if c.Wheelchair.MaxAcceleration <= 0 {
		return fail("wheelchair.max_acceleration", c.Wheelchair.MaxAcceleration)
	}
	if c.Wheelchair.MaxAngularVelocity <= 0 {
		return fail("wheelchair.max_angular_velocity", c.Wheelchair.MaxAngularVelocity)
	}
	if c.Wheelchair.Mass <= 0 {
		return fail("wheelchair.mass", c.Wheelchair.Mass)
	}
	if c.Sensors.ProximityRange <= 0 {
		return fail("sensors.proximity_range", c.Sensors.ProximityRange)
	}
	if c.Sensors.ProximityUpdateRate <= 0 {
		return fail("sensors.proximity_update_rate", c.Sensors.ProximityUpdateRate)
	}
	if c.Power.BatteryCapacity <= 0 {
		return fail("power.battery_capacity", c.Power.BatteryCapacity)
	}
	if c.Power.MinVoltage <= 0 || c.Power.MaxVoltage <= c.Power.MinVoltage {
		return fmt.Errorf("%w: power voltage bounds [%g, %g]",
			chair.ErrInvalidConfig, c.Power.MinVoltage, c.Power.MaxVoltage)
	}
	if c.Power.MotorEfficiency <= 0 || c.Power.MotorEfficiency > 1 {
		return fail("power.motor_efficiency", c.Power.MotorEfficiency)
	}
	if c.Safety.DeadmanTimeout <= 0 {
		return fail("safety.deadman_timeout", c.Safety.DeadmanTimeout)
	}
	if c.Safety.ObstacleStopDistance <= 0 ||
		c.Safety.ObstacleSlowDistance <= c.Safety.ObstacleStopDistance {
		return fmt.Errorf("%w: obstacle distances stop=%g slow=%g",
			chair.ErrInvalidConfig, c.Safety.ObstacleStopDistance, c.Safety.ObstacleSlowDistance)
	}
	if c.Simulation.UpdateRate <= 0 {
		return fail("simulation.update_rate", c.Simulation.UpdateRate)
	}
	if c.Simulation.RealtimeFactor <= 0 {
		return fail("simulation.realtime_factor", c.Simulation.RealtimeFactor)
	}
	return nil
}

// Dt is the fixed timestep derived from the update rate.
func (c *Config) Dt() float64 {
	return 1.0 / c.Simulation.UpdateRate
}
