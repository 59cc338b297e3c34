package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/davral/wheelsim/internal/chair"
	"github.com/davral/wheelsim/internal/config"
	"github.com/davral/wheelsim/internal/emulator"
	"github.com/davral/wheelsim/internal/telemetry"
	"github.com/davral/wheelsim/internal/viz"
)

var (
	configFile string
	preset     string
	duration   float64
	seed       int64
	linear     float64
	angular    float64
	showPlots  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wheelsim",
		Short: "deterministic wheelchair emulator",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation with scripted input",
		RunE:  runEmulator,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().Float64Var(&duration, "time", 10.0, "simulated duration in seconds")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "sensor random seed (0 = clock)")
	runCmd.Flags().Float64Var(&linear, "linear", 0.5, "scripted linear input")
	runCmd.Flags().Float64Var(&angular, "angular", 0.0, "scripted angular input")
	runCmd.Flags().BoolVar(&showPlots, "plot", false, "print ascii plots after the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive teleop with live visualization",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	liveCmd.Flags().Int64Var(&seed, "seed", 0, "sensor random seed (0 = clock)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			names := config.ListPresets()
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config init [path]",
		Short: "write a default configuration file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != "init" {
				return fmt.Errorf("unknown config subcommand: %s", args[0])
			}
			path := "wheelsim.yaml"
			if len(args) > 1 {
				path = args[1]
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("seed") {
		cfg.Simulation.Seed = seed
	}
	return cfg, nil
}

func runEmulator(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	emu, err := emulator.New(cfg)
	if err != nil {
		return err
	}

	window := int(duration * cfg.Simulation.UpdateRate)
	if window <= 0 {
		window = 4096
	}
	recorder := telemetry.NewRecorder(window)
	emu.AddCallback(recorder.Callback())
	emu.AddCallback(printState)

	emu.Controller.SetInput(chair.ControllerInput{
		Linear:         linear,
		Angular:        angular,
		DeadmanPressed: true,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("starting emulator (update rate: %.0f Hz, realtime factor: %.1fx)\n",
		cfg.Simulation.UpdateRate, cfg.Simulation.RealtimeFactor)

	if err := emu.Run(ctx, duration); err != nil {
		fmt.Println("\nsimulation interrupted")
	}

	stats := emu.Stats()
	fmt.Printf("\n\ntotal steps: %d\n", stats.StepCount)
	fmt.Printf("simulated time: %.2f s\n", stats.SimTime)

	if showPlots {
		fmt.Println()
		fmt.Println(recorder.Plots(80, 10))
	}
	return nil
}

func printState(state *chair.WheelchairState, dt float64) {
	fmt.Printf("\r[%5.1f%%] pos: (%6.2f, %6.2f) th: %5.2f v: %5.2f m/s w: %5.2f rad/s motors: L=%5.2f R=%5.2f",
		state.BatteryPercent, state.X, state.Y, state.Theta,
		state.LinearVelocity, state.AngularVelocity,
		state.LeftMotorSpeed, state.RightMotorSpeed)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	emu, err := emulator.New(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(emu))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
