package emulator_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/davral/wheelsim/internal/chair"
	"github.com/davral/wheelsim/internal/config"
	"github.com/davral/wheelsim/internal/emulator"
)

func scenarioConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Simulation.Seed = 42
	// keep random proximity scans out of scripted scenarios
	cfg.Sensors.ProximityUpdateRate = 1e-6
	return cfg
}

var _ = Describe("Emulator", func() {
	var emu *emulator.Emulator

	BeforeEach(func() {
		var err error
		emu, err = emulator.New(scenarioConfig())
		Expect(err).NotTo(HaveOccurred())
	})

	stepFor := func(seconds float64) {
		steps := int(seconds / emu.Dt())
		for i := 0; i < steps; i++ {
			emu.Step()
		}
	}

	Describe("driving forward", func() {
		BeforeEach(func() {
			emu.Controller.SetInput(chair.ControllerInput{Linear: 0.5, DeadmanPressed: true})
			stepFor(2.0)
		})

		It("moves along the x axis", func() {
			state := emu.Snapshot()
			Expect(state.X).To(BeNumerically(">", 0))
			Expect(state.Y).To(BeNumerically("~", 0, 0.01))
		})

		It("discharges the battery", func() {
			Expect(emu.Snapshot().BatteryPercent).To(BeNumerically("<", 100))
		})

		It("keeps the state finite", func() {
			state := emu.Snapshot()
			Expect(state.IsFinite()).To(BeTrue())
		})
	})

	Describe("deadman switch", func() {
		It("stops the chair when confirmation lapses", func() {
			emu.Controller.SetInput(chair.ControllerInput{Linear: 0.5, DeadmanPressed: true})
			stepFor(1.0)
			Expect(emu.Snapshot().LinearVelocity).To(BeNumerically(">", 0))

			// keep commanding motion but stop confirming
			emu.Controller.SetInput(chair.ControllerInput{Linear: 0.5})
			stepFor(1.0)

			state := emu.Snapshot()
			Expect(state.LinearVelocity).To(BeZero())
			Expect(state.EmergencyStop).To(BeTrue())
		})

		It("does not require confirmation before first use", func() {
			// neutral controller, deadman never pressed
			stepFor(1.0)
			Expect(emu.Snapshot().EmergencyStop).To(BeFalse())
		})
	})

	Describe("obstacle handling", func() {
		BeforeEach(func() {
			emu.Controller.SetInput(chair.ControllerInput{Linear: 1.0, DeadmanPressed: true})
			stepFor(1.0)
		})

		It("halts for an obstacle inside the stop distance", func() {
			Expect(emu.Sensors.InjectObstacle(chair.Front, 0.3)).To(Succeed())
			emu.Step()

			state := emu.Snapshot()
			Expect(state.LinearVelocity).To(BeZero())
			Expect(state.EmergencyStop).To(BeTrue())
		})

		It("ignores an obstacle behind a forward-moving chair", func() {
			Expect(emu.Sensors.InjectObstacle(chair.Rear, 0.3)).To(Succeed())
			stepFor(0.5)

			Expect(emu.Snapshot().EmergencyStop).To(BeFalse())
			Expect(emu.Snapshot().LinearVelocity).To(BeNumerically(">", 0))
		})

		It("slows down inside the slow zone", func() {
			Expect(emu.Sensors.InjectObstacle(chair.Front, 1.0)).To(Succeed())
			stepFor(3.0)

			// half the commanded speed: 1.0 m/s instead of 2.0
			Expect(emu.Snapshot().LinearVelocity).To(BeNumerically("~", 1.0, 0.05))
		})
	})

	Describe("disconnected controller", func() {
		It("stops once the deadman confirmation lapses", func() {
			emu.Controller.SetInput(chair.ControllerInput{Linear: 1.0, DeadmanPressed: true})
			stepFor(1.0)

			emu.Controller.Disconnect()
			stepFor(2.0)

			state := emu.Snapshot()
			Expect(state.LinearVelocity).To(BeZero())
		})
	})

	Describe("reset", func() {
		It("returns everything to defaults", func() {
			emu.Controller.SetInput(chair.ControllerInput{Linear: 1.0, DeadmanPressed: true})
			stepFor(2.0)

			emu.Reset()

			stats := emu.Stats()
			Expect(stats.StepCount).To(BeZero())
			Expect(stats.SimTime).To(BeZero())

			state := emu.Snapshot()
			Expect(state.X).To(BeZero())
			Expect(state.BatteryPercent).To(Equal(100.0))
		})
	})

	Describe("determinism", func() {
		It("reproduces identical trajectories for the same seed", func() {
			other, err := emulator.New(scenarioConfig())
			Expect(err).NotTo(HaveOccurred())

			for _, e := range []*emulator.Emulator{emu, other} {
				e.Controller.SetInput(chair.ControllerInput{Linear: 0.7, Angular: 0.2, DeadmanPressed: true})
			}
			for i := 0; i < 200; i++ {
				emu.Step()
				other.Step()
				Expect(emu.Snapshot()).To(Equal(other.Snapshot()))
				Expect(emu.Sensors.ReadSensors()).To(Equal(other.Sensors.ReadSensors()))
			}
		})
	})
})
