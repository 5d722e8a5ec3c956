package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sphsim/internal/dynamo"
	"github.com/san-kum/sphsim/internal/metrics"
	"github.com/san-kum/sphsim/internal/physics"
)

const (
	width           = 60
	height          = 24
	fps             = 60
	historyCapacity = 600
)

var (
	canvasStyle      = lipgloss.NewStyle().Padding(1, 2)
	statsStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	headerStyle      = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Bold(true)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// parameters whose change lays the particles out again
var resetsParticles = map[string]bool{
	"particle_count":   true,
	"container_width":  true,
	"container_height": true,
	"smoothing_radius": true,
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// snapshot is one recorded frame for replay.
type snapshot struct {
	frame  []dynamo.ParticleView
	time   float64
	energy float64
}

// gauge eases a displayed value toward its target with a critically damped
// spring so readouts do not flicker at 60 fps.
type gauge struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
}

func newGauge() gauge {
	return gauge{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
}

func (g *gauge) update(target float64) float64 {
	g.pos, g.vel = g.spring.Update(g.pos, g.vel, target)
	return g.pos
}

// Model is the live terminal view of a running solver.
type Model struct {
	solver  *physics.Solver
	initial physics.Params
	title   string
	t, dt   float64
	steps   int

	width, height int
	canvas        *Canvas
	theme         Theme
	running       bool
	showCells     bool
	showHelp      bool

	energy  *metrics.KineticEnergy
	speed   *metrics.MaxSpeed
	density *metrics.DensityError

	energyHistory  []float64
	densityHistory []float64
	history        []snapshot
	playHead       int

	speedGauge   gauge
	densityGauge gauge

	paramKeys     []string
	initialValues map[string]float64
	selected      int
	status        string

	recorder *Recorder
	gifPath  string
}

// NewModel wraps a configured solver. dt is the step taken per frame.
func NewModel(solver *physics.Solver, dt float64, title string) Model {
	values := solver.GetParams()
	keys := make([]string, 0, len(values))
	for k, v := range values {
		keys = append(keys, k)
		if v == 0 {
			values[k] = 1e-6
		}
	}
	sort.Strings(keys)

	m := Model{
		solver:         solver,
		initial:        solver.Params(),
		title:          title,
		dt:             dt,
		width:          width,
		height:         height,
		canvas:         NewCanvas(width, height),
		theme:          ThemeOcean,
		running:        true,
		energyHistory:  make([]float64, 0, historyCapacity),
		densityHistory: make([]float64, 0, historyCapacity),
		history:        make([]snapshot, 0, historyCapacity),
		playHead:       -1,
		speedGauge:     newGauge(),
		densityGauge:   newGauge(),
		paramKeys:      keys,
		initialValues:  values,
		gifPath:        "sphsim.gif",
	}
	m.resetMetrics()
	return m
}

// WithTheme returns m using the named theme.
func (m Model) WithTheme(name string) Model {
	m.theme = GetTheme(name)
	return m
}

// WithGIFPath sets where recordings are written.
func (m Model) WithGIFPath(path string) Model {
	m.gifPath = path
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := max(msg.Width-56, 20)
		h := max(msg.Height-4, 8)
		m.width, m.height = w, h
		m.canvas = NewCanvas(w, h)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recorder != nil {
				m.stopRecording()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "c":
			m.showCells = !m.showCells
		case "g":
			if m.recorder != nil {
				m.stopRecording()
			} else {
				m.recorder = NewRecorder()
			}
		case "t":
			m.theme = NextTheme(m.theme.Name)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		m.speedGauge.update(m.speed.Current())
		m.densityGauge.update(m.density.Current())
		m.draw()
		if m.recorder != nil {
			m.recorder.Capture(m.canvas)
		}
		return m, tick()
	}
	return m, nil
}

// step advances the solver by one frame and samples the metrics.
func (m *Model) step() {
	m.solver.Step(m.dt)
	m.t += m.dt
	m.steps++

	frame := m.solver.Particles()
	for _, metric := range []dynamo.Metric{m.energy, m.speed, m.density} {
		metric.Observe(frame, m.t)
	}

	m.energyHistory = appendCapped(m.energyHistory, m.energy.Current())
	m.densityHistory = appendCapped(m.densityHistory, m.density.Current())

	m.history = append(m.history, snapshot{frame: frame, time: m.t, energy: m.energy.Current()})
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

// adjustParam scales the selected parameter. Rejected values leave the
// solver untouched and show the reason in the status line.
func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.solver.GetParams()[key]
	next := val * factor
	if val == 0 {
		next = (factor - 1) * 2
	}

	if err := m.solver.SetParam(key, next); err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
	if resetsParticles[key] {
		m.clearHistory()
	}
	m.resetMetrics()
}

// reset restores the initial parameters and lays the particles out again.
func (m *Model) reset() {
	if err := m.solver.Configure(m.initial); err != nil {
		m.status = err.Error()
		return
	}
	m.solver.Reset()
	m.status = ""
	m.clearHistory()
	m.resetMetrics()
}

func (m *Model) clearHistory() {
	m.t = 0
	m.steps = 0
	m.playHead = -1
	m.energyHistory = m.energyHistory[:0]
	m.densityHistory = m.densityHistory[:0]
	m.history = m.history[:0]
}

func (m *Model) resetMetrics() {
	p := m.solver.Params()
	m.energy = metrics.NewKineticEnergy(p.Mass)
	m.speed = metrics.NewMaxSpeed()
	m.density = metrics.NewDensityError(p.RestDensity)
}

func (m *Model) stopRecording() {
	if err := m.recorder.Save(m.gifPath); err != nil {
		m.status = err.Error()
	} else {
		m.status = "saved " + m.gifPath
	}
	m.recorder = nil
}

// frame returns the particles being shown, honoring replay.
func (m *Model) frame() ([]dynamo.ParticleView, float64) {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		snap := m.history[m.playHead]
		return snap.frame, snap.time
	}
	return m.solver.Particles(), m.t
}

func (m *Model) draw() {
	m.canvas.Clear()
	bounds := m.solver.Bounds()
	vp := NewViewport(bounds, m.canvas)

	if m.showCells {
		for _, cell := range m.solver.GridCells() {
			vp.DrawBox(m.canvas, cell)
		}
	}
	vp.DrawBox(m.canvas, bounds)

	frame, _ := m.frame()
	for _, p := range frame {
		x, y := vp.Project(p.Position)
		m.canvas.Set(x, y)
	}
}

func (m Model) referenceSpeed() float64 {
	if v := m.solver.Params().FreeFallSpeed(); v > 0 {
		return v
	}
	return 1
}

func (m Model) statusLine() string {
	status := "RUNNING"
	if m.playHead != -1 && len(m.history) > 0 {
		back := m.history[m.playHead].time - m.history[len(m.history)-1].time
		status = fmt.Sprintf("REPLAY (%.1fs)", back)
		if !m.running {
			status = fmt.Sprintf("REPLAY PAUSED (%.1fs)", back)
		}
	} else if !m.running {
		status = "PAUSED"
	}
	if m.recorder != nil {
		status += fmt.Sprintf("  ● REC %d", m.recorder.Len())
	}
	return status
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Foreground(m.theme.Particle).Render(m.canvas.String())

	frame, t := m.frame()
	accent := lipgloss.NewStyle().Foreground(m.theme.Accent)

	var s strings.Builder
	s.WriteString(headerStyle.Foreground(m.theme.Accent).Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.statusLine() + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(accent.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", t)) + "\n")
	s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d", m.steps)) + "\n")
	s.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", len(frame))) + "\n")
	s.WriteString(labelStyle.Render("Integrator") + valueStyle.Render(m.solver.Integrator().Name()) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.2f", m.energy.Current())) + "\n")

	speed := m.speedGauge.pos
	s.WriteString(labelStyle.Render("Max speed") + ProgressBar(speed/m.referenceSpeed(), 16) + valueStyle.Render(fmt.Sprintf(" %.2f", speed)) + "\n")
	s.WriteString(labelStyle.Render("Density err") + SparklineChart(m.densityHistory, 16) + valueStyle.Render(fmt.Sprintf(" %.3f", m.densityGauge.pos)) + "\n")

	s.WriteString("\nPARAMETERS\n")
	params := m.solver.GetParams()
	for i, k := range m.paramKeys {
		val, initial := params[k], m.initialValues[k]
		barWidth, ratio := 10, val/(2.0*initial)
		ratio = math.Max(0, math.Min(1, ratio))
		filled := int(ratio * float64(barWidth))
		bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled) + "]"
		line := fmt.Sprintf("%-16s %s %.3f", k, bar, val)
		if i == m.selected {
			s.WriteString(activeParamStyle.Foreground(m.theme.Accent).Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + lipgloss.NewStyle().Foreground(m.theme.Muted).Render(line) + "\n")
		}
	}
	if m.status != "" {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Warning).Render(m.status) + "\n")
	}
	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause R:Reset Q:Quit\nT:Theme  G:Record C:Cells ?:Help\n[ ]:Time-Travel ↑↓:Tune"))

	statsView := statsStyle.BorderForeground(m.theme.Border).Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset simulation         ║
║  Q        - Quit                     ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  [        - Rewind (time travel)     ║
║  ]        - Forward (time travel)    ║
║  C        - Toggle grid cells        ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run starts the live view on the alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

var _ tea.Model = Model{}
