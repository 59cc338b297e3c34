// Package power models battery discharge as a first-order circuit
// approximation: power draw becomes current at the present voltage, charge
// accumulates in amp-hours, and voltage tracks percent linearly between the
// configured bounds.
package power

import (
	"github.com/davral/wheelsim/internal/chair"
	"github.com/davral/wheelsim/internal/config"
)

type Battery struct {
	cfg config.PowerConfig

	voltage    float64
	percent    float64
	consumedAh float64
}

func New(cfg config.PowerConfig) *Battery {
	return &Battery{
		cfg:     cfg,
		voltage: cfg.MaxVoltage,
		percent: 100.0,
	}
}

func (b *Battery) Voltage() float64 { return b.voltage }
func (b *Battery) Percent() float64 { return b.percent }

// Update integrates powerDraw watts over dt seconds into consumed charge.
// Percent is monotonically non-increasing for non-negative draw.
func (b *Battery) Update(dt, powerDraw float64) {
	current := powerDraw / b.voltage
	b.consumedAh += current * (dt / 3600.0)

	b.percent = 100.0 * (1.0 - b.consumedAh/b.cfg.BatteryCapacity)
	b.recomputeVoltage()
}

// SetChargeLevel overrides charge for test scenarios, keeping consumed charge
// and voltage consistent with the discharge model.
func (b *Battery) SetChargeLevel(percent float64) {
	b.percent = chair.Clamp(percent, 0, 100)
	b.consumedAh = b.cfg.BatteryCapacity * (1.0 - b.percent/100.0)
	b.recomputeVoltage()
}

// Reset restores full charge.
func (b *Battery) Reset() {
	b.voltage = b.cfg.MaxVoltage
	b.percent = 100.0
	b.consumedAh = 0.0
}

func (b *Battery) recomputeVoltage() {
	b.percent = chair.Clamp(b.percent, 0, 100)
	span := b.cfg.MaxVoltage - b.cfg.MinVoltage
	b.voltage = b.cfg.MinVoltage + (b.percent/100.0)*span
}
