package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/sphsim/internal/config"
	"github.com/san-kum/sphsim/internal/physics"
)

var presetInfo = map[string]string{
	"dam_break": "block collapses under gravity",
	"calm":      "viscous, heavily damped",
	"splash":    "stiff fluid, bouncy walls",
	"zero_g":    "pressure only, no gravity",
	"large":     "900 particles, 4 workers",
}

// SolverFactory builds a solver for a preset configuration.
type SolverFactory func(cfg *config.Config) (*physics.Solver, error)

const (
	stateMenu = iota
	stateSim
)

// Picker lists the presets and opens the chosen one in a live view.
type Picker struct {
	state   int
	cursor  int
	presets []string
	build   SolverFactory
	err     error
	live    Model
	size    *tea.WindowSizeMsg
}

func NewPicker(build SolverFactory) Picker {
	return Picker{
		state:   stateMenu,
		presets: config.ListPresets(),
		build:   build,
	}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		p.size = &size
	}
	if p.state == stateSim {
		next, cmd := p.live.Update(msg)
		p.live = next.(Model)
		return p, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.presets)-1 {
			p.cursor++
		}
	case "enter", " ":
		return p.start()
	}
	return p, nil
}

// start builds the selected preset and hands control to the live view.
func (p Picker) start() (tea.Model, tea.Cmd) {
	name := p.presets[p.cursor]
	cfg := config.GetPreset(name)
	solver, err := p.build(cfg)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", name, err)
		return p, nil
	}
	p.err = nil
	p.live = NewModel(solver, cfg.Dt, name)
	if p.size != nil {
		next, _ := p.live.Update(*p.size)
		p.live = next.(Model)
	}
	p.state = stateSim
	return p, p.live.Init()
}

func (p Picker) View() string {
	if p.state == stateSim {
		return p.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + GradientText("SPHSIM", "#00cccc", "#ff88ff") + "\n")
	b.WriteString("    " + Subtle.Render("2d particle fluid") + "\n")
	b.WriteString("    " + Subtle.Render("─────────────────────────") + "\n\n")

	for i, name := range p.presets {
		desc := presetInfo[name]
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n",
				lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true).Render("▸"),
				lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true).Render(fmt.Sprintf("%-12s", name)),
				lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")).Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n",
				lipgloss.NewStyle().Foreground(lipgloss.Color("#555566")).Render(fmt.Sprintf("  %-12s", name)),
				lipgloss.NewStyle().Foreground(lipgloss.Color("#444455")).Render(desc)))
		}
	}

	if p.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Render(p.err.Error()) + "\n")
	}

	b.WriteString("\n    " + KeyHint.Render("j/k") + Subtle.Render(" navigate  ") +
		KeyHint.Render("enter") + Subtle.Render(" select  ") +
		KeyHint.Render("q") + Subtle.Render(" quit") + "\n")
	return b.String()
}

// RunPicker starts the preset picker on the alternate screen.
func RunPicker(build SolverFactory) error {
	_, err := tea.NewProgram(NewPicker(build), tea.WithAltScreen()).Run()
	return err
}
