// Live teleop view. The bubbletea model owns the simulation loop and steps
// it from the tick handler, so the whole program stays single-goroutine.
package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/davral/wheelsim/internal/chair"
	"github.com/davral/wheelsim/internal/emulator"
)

const (
	canvasWidth  = 60
	canvasHeight = 20
	trailCap     = 400

	// sub-pixels per meter in the top-down projection
	pixelsPerMeter = 12.0

	intentStep = 0.1
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

type point struct{ x, y float64 }

// Model drives the emulator from keyboard input and renders a top-down view.
type Model struct {
	emu    *emulator.Emulator
	canvas *Canvas
	trail  []point

	linear   float64
	angular  float64
	deadman  bool
	estop    bool
	mode     chair.DriveMode
	showHelp bool
}

func NewModel(emu *emulator.Emulator) Model {
	return Model{
		emu:    emu,
		canvas: NewCanvas(canvasWidth, canvasHeight),
		trail:  make([]point, 0, trailCap),
		mode:   chair.ModeManual,
	}
}

func (m Model) tickCmd() tea.Cmd {
	interval := time.Duration(m.emu.Dt() * float64(time.Second))
	return tea.Tick(interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			m.linear = chair.Clamp(m.linear+intentStep, -1, 1)
		case "down", "j":
			m.linear = chair.Clamp(m.linear-intentStep, -1, 1)
		case "left", "h":
			m.angular = chair.Clamp(m.angular+intentStep, -1, 1)
		case "right", "l":
			m.angular = chair.Clamp(m.angular-intentStep, -1, 1)
		case "x":
			m.linear, m.angular = 0, 0
		case " ":
			m.deadman = !m.deadman
		case "e":
			m.estop = !m.estop
		case "m":
			m.mode = m.mode.Next()
		case "o":
			m.emu.Sensors.InjectObstacle(chair.Front, 1.0)
		case "b":
			m.emu.Sensors.InjectObstacle(chair.Rear, 1.0)
		case "c":
			m.emu.Sensors.ClearObstacles()
		case "r":
			m.emu.Reset()
			m.trail = m.trail[:0]
			m.linear, m.angular = 0, 0
			m.deadman, m.estop = false, false
			m.mode = chair.ModeManual
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.emu.Controller.SetInput(chair.ControllerInput{
			Linear:         m.linear,
			Angular:        m.angular,
			EmergencyStop:  m.estop,
			DeadmanPressed: m.deadman,
		})
		m.emu.Step()

		state := m.emu.Snapshot()
		m.trail = append(m.trail, point{state.X, state.Y})
		if len(m.trail) > trailCap {
			m.trail = m.trail[1:]
		}
		return m, m.tickCmd()
	}
	return m, nil
}

func (m Model) View() string {
	state := m.emu.Snapshot()
	m.drawScene(state)

	left := canvasStyle.Render(m.canvas.String())
	right := statsStyle.Render(m.statsPanel(state))
	view := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	help := "? help  q quit"
	if m.showHelp {
		help = strings.Join([]string{
			"arrows/hjkl  adjust linear/angular intent",
			"x  zero intent      space  toggle deadman",
			"e  emergency stop   m      cycle drive mode",
			"o/b  obstacle front/rear",
			"c  clear obstacles  r      reset",
			"q  quit",
		}, "\n")
	}
	return view + "\n" + helpStyle.Render(help)
}

// drawScene projects a chase view centered on the chair: trail, chair
// marker, heading ray, and any injected obstacles.
func (m Model) drawScene(state chair.WheelchairState) {
	m.canvas.Clear()

	cx := canvasWidth * 2 / 2
	cy := canvasHeight * 4 / 2
	project := func(wx, wy float64) (int, int) {
		// screen y grows downward
		px := cx + int((wx-state.X)*pixelsPerMeter)
		py := cy - int((wy-state.Y)*pixelsPerMeter)
		return px, py
	}

	for _, p := range m.trail {
		x, y := project(p.x, p.y)
		m.canvas.Set(x, y)
	}

	// heading ray, 0.5 m long
	hx, hy := project(
		state.X+0.5*math.Cos(state.Theta),
		state.Y+0.5*math.Sin(state.Theta),
	)
	m.canvas.DrawLine(cx, cy, hx, hy)

	sensors := m.emu.Sensors.ReadSensors()
	for _, o := range []struct {
		p      chair.Proximity
		offset float64 // angle relative to heading
	}{
		{sensors.Front, 0},
		{sensors.Rear, math.Pi},
		{sensors.Left, math.Pi / 2},
		{sensors.Right, -math.Pi / 2},
	} {
		if !o.p.Detected {
			continue
		}
		ox, oy := project(
			state.X+o.p.Distance*math.Cos(state.Theta+o.offset),
			state.Y+o.p.Distance*math.Sin(state.Theta+o.offset),
		)
		// small cross marker
		m.canvas.Set(ox, oy)
		m.canvas.Set(ox-1, oy)
		m.canvas.Set(ox+1, oy)
		m.canvas.Set(ox, oy-1)
		m.canvas.Set(ox, oy+1)
	}
}

func (m Model) statsPanel(state chair.WheelchairState) string {
	stats := m.emu.Stats()

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	lines := []string{
		headerStyle.Render("wheelsim"),
		row("sim time", fmt.Sprintf("%8.2f s", stats.SimTime)),
		row("steps", fmt.Sprintf("%8d", stats.StepCount)),
		"",
		row("position", fmt.Sprintf("(%.2f, %.2f) m", state.X, state.Y)),
		row("heading", fmt.Sprintf("%8.2f rad", state.Theta)),
		row("velocity", fmt.Sprintf("%8.2f m/s", state.LinearVelocity)),
		row("turn rate", fmt.Sprintf("%8.2f rad/s", state.AngularVelocity)),
		row("motors", fmt.Sprintf("L %5.2f  R %5.2f", state.LeftMotorSpeed, state.RightMotorSpeed)),
		"",
		row("battery", fmt.Sprintf("%5.1f %%  %.1f V", state.BatteryPercent, state.BatteryVoltage)),
		row("mode", string(m.mode)),
		row("intent", fmt.Sprintf("lin %5.2f ang %5.2f", m.linear, m.angular)),
		"",
	}

	if state.EmergencyStop {
		lines = append(lines, alertStyle.Render("EMERGENCY STOP"))
	} else if state.DeadmanActive {
		lines = append(lines, okStyle.Render("deadman held"))
	} else {
		lines = append(lines, valueStyle.Render("deadman released"))
	}

	return strings.Join(lines, "\n")
}
