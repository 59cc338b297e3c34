package emulator

import (
	"time"

	"github.com/davral/wheelsim/internal/chair"
	"github.com/davral/wheelsim/internal/config"
	"github.com/davral/wheelsim/internal/controller"
	"github.com/davral/wheelsim/internal/drive"
	"github.com/davral/wheelsim/internal/power"
	"github.com/davral/wheelsim/internal/safety"
	"github.com/davral/wheelsim/internal/sensors"
)

// Emulator bundles the loop with its concrete subsystems so callers can
// script inputs and inject obstacles while the loop sees only the capability
// interfaces.
type Emulator struct {
	*Loop

	Controller *controller.Emulated
	Sensors    *sensors.Suite
	Drive      *drive.Drive
	Power      *power.Battery
	Safety     *safety.Monitor
}

// New builds a complete emulator around one shared state. A nil cfg uses
// defaults. The sensor seed comes from the configuration; zero picks a
// clock-derived seed.
func New(cfg *config.Config) (*Emulator, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	state := chair.DefaultState()

	drv := drive.New(cfg.Wheelchair, cfg.Power, &state)
	ctrl := controller.New()
	sns := sensors.New(cfg.Sensors, &state, seed)
	pwr := power.New(cfg.Power)
	sfy := safety.New(cfg.Safety)

	return &Emulator{
		Loop:       NewLoop(cfg, drv, ctrl, sns, pwr, sfy, &state),
		Controller: ctrl,
		Sensors:    sns,
		Drive:      drv,
		Power:      pwr,
		Safety:     sfy,
	}, nil
}
