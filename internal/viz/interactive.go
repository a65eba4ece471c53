package viz

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/bhverlet/internal/config"
	"github.com/san-kum/bhverlet/internal/sim"
)

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	idleDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

var presetInfo = map[string]string{
	"default": "settling under self-gravity",
	"swarm":   "ring, core and pointer pull",
	"lens":    "fisheye follows the mouse",
	"rain":    "linear fall with wind toggle",
	"galaxy":  "simplex clusters, parallel",
	"anchors": "pinned masses",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// param is one editable field of the selected preset.
type param struct {
	name string
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
}

var params = []param{
	{"count", func(c *config.Config) float64 { return float64(c.Particles.Count) }, func(c *config.Config, v float64) { c.Particles.Count = int(v) }},
	{"dt", func(c *config.Config) float64 { return c.Integrator.Dt }, func(c *config.Config, v float64) { c.Integrator.Dt = v }},
	{"drag", func(c *config.Config) float64 { return c.Integrator.Drag }, func(c *config.Config, v float64) { c.Integrator.Drag = v }},
	{"theta", func(c *config.Config) float64 { return c.Tree.Theta }, func(c *config.Config, v float64) { c.Tree.Theta = v }},
	{"g", func(c *config.Config) float64 { return c.Tree.G }, func(c *config.Config, v float64) { c.Tree.G = v }},
	{"iterations", func(c *config.Config) float64 { return float64(c.Solver.Iterations) }, func(c *config.Config, v float64) { c.Solver.Iterations = int(v) }},
	{"seed", func(c *config.Config) float64 { return float64(c.Seed) }, func(c *config.Config, v float64) { c.Seed = int64(v) }},
}

type app struct {
	state, cursor int
	presets       []string
	selected      string
	cfg           *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	err           error
	width, height int
	live          Model
}

// NewApp returns the preset picker. Enter on a preset opens its parameters,
// s starts the live view.
func NewApp() *app {
	return &app{state: stateMenu, presets: config.ListPresets(), width: width, height: height}
}

func (m app) Init() tea.Cmd { return nil }

func (m app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.state == stateSim {
			m.live.resize(msg.Width, msg.Height)
		}
		return m, nil
	default:
		if m.state == stateSim {
			next, cmd := m.live.Update(msg)
			m.live = next.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m app) handleKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	return m, nil
}

func (m app) menuKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		cfg, err := config.GetPreset(m.presets[m.cursor])
		if err != nil {
			m.err = err
			return m, nil
		}
		m.selected, m.cfg, m.err = m.presets[m.cursor], cfg, nil
		m.state, m.paramCursor = stateConfig, 0
	}
	return m, nil
}

func (m app) configKey(msg tea.KeyMsg) (app, tea.Cmd) {
	p := params[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				p.set(m.cfg, v)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state, m.err = stateMenu, nil
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(params)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, strconv.FormatFloat(p.get(m.cfg), 'g', -1, 64)
	case "s":
		cmd := m.start()
		return m, cmd
	case "left", "h":
		p.set(m.cfg, nudge(p.get(m.cfg), -1))
	case "right", "l":
		p.set(m.cfg, nudge(p.get(m.cfg), 1))
	}
	return m, nil
}

// nudge moves v by a tenth of its magnitude, or by 0.1 near zero.
func nudge(v float64, dir int) float64 {
	return v + float64(dir)*math.Max(0.1, math.Abs(v)/10)
}

func (m *app) start() tea.Cmd {
	sc, err := m.cfg.Build()
	if err != nil {
		m.err = err
		return nil
	}
	s, err := sim.New(sc)
	if err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	m.live = NewModel(s, m.selected)
	m.live.resize(m.width, m.height)
	m.state = stateSim
	return m.live.Init()
}

func (m app) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View()
	}
	return ""
}

func (m app) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("BHVERLET") + "\n    " + subStyle.Render("barnes-hut particle playground") + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-12s", name)), descStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-12s", name)), idleDescStyle.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyStyle.Render("j/k") + idleStyle.Render(" navigate  ") + keyStyle.Render("enter") + idleStyle.Render(" select  ") + keyStyle.Render("q") + idleStyle.Render(" quit") + "\n")
	return b.String()
}

func (m app) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render(strings.ToUpper(m.selected)) + "\n    " + subStyle.Render(presetInfo[m.selected]) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, p := range params {
		valStr := fmt.Sprintf("%10.4g", p.get(m.cfg))
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-10s", p.name)), descStyle.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-10s", p.name)), idleDescStyle.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyStyle.Render("j/k") + idleStyle.Render(" select  ") + keyStyle.Render("h/l") + idleStyle.Render(" adjust  ") + keyStyle.Render("s") + idleStyle.Render(" start  ") + keyStyle.Render("esc") + idleStyle.Render(" back") + "\n")
	return b.String()
}

// RunInteractive starts the preset picker.
func RunInteractive() error {
	_, err := tea.NewProgram(NewApp(), tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
