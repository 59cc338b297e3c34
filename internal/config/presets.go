package config

// Presets are ready-made configurations for common test scenarios.
var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	"indoor": func() *Config {
		cfg := DefaultConfig()
		cfg.Wheelchair.MaxVelocity = 1.0
		cfg.Wheelchair.MaxAcceleration = 0.5
		cfg.Safety.ObstacleStopDistance = 0.3
		cfg.Safety.ObstacleSlowDistance = 1.0
		return cfg
	},
	"outdoor": func() *Config {
		cfg := DefaultConfig()
		cfg.Wheelchair.MaxVelocity = 2.5
		cfg.Wheelchair.MaxAcceleration = 1.2
		cfg.Safety.ObstacleSlowDistance = 2.5
		return cfg
	},
	"fasttest": func() *Config {
		// For automated runs: no pacing, fixed seed.
		cfg := DefaultConfig()
		cfg.Simulation.RealtimeFactor = 100.0
		cfg.Simulation.Seed = 42
		return cfg
	},
	"lowbatt": func() *Config {
		cfg := DefaultConfig()
		cfg.Power.BatteryCapacity = 2.0
		return cfg
	},
}

func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
