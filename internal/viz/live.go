package viz

import (
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/bhverlet/internal/metrics"
	"github.com/san-kum/bhverlet/internal/quadtree"
	"github.com/san-kum/bhverlet/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	statsWidth      = 48
	canvasPadTop    = 1
	canvasPadLeft   = 2
	maxStepsFrame   = 32
	treeDepthLimit  = 6
)

type TickMsg time.Time

// Model drives a simulation from the terminal and renders it on a braille canvas.
type Model struct {
	sim           *sim.Simulation
	name          string
	width, height int
	canvas        *Canvas
	view          []sim.RenderParticle
	running       bool
	showTree      bool
	showHelp      bool
	pointer       bool
	stepsPerFrame int
	kinetic       []float64
	recording     bool
	frames        []*image.Paletted
	status        string
	err           error
}

// NewModel wraps a ready simulation.
func NewModel(s *sim.Simulation, name string) Model {
	return Model{
		sim:           s,
		name:          name,
		width:         width,
		height:        height,
		canvas:        NewCanvas(width, height),
		running:       true,
		stepsPerFrame: 1,
		kinetic:       make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "d":
			m.showTree = !m.showTree
		case "t":
			NextTheme()
		case "esc":
			m.release()
		case "+", "=":
			if m.stepsPerFrame < maxStepsFrame {
				m.stepsPerFrame *= 2
			}
		case "-", "_":
			if m.stepsPerFrame > 1 {
				m.stepsPerFrame /= 2
			}
		case "g":
			if m.recording {
				if err := m.saveGIF("simulation.gif"); err != nil {
					m.status = err.Error()
				} else {
					m.status = fmt.Sprintf("saved %d frames", len(m.frames))
				}
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		default:
			if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
				m.toggle(int(key[0] - '1'))
			}
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	for i := 0; i < m.stepsPerFrame; i++ {
		if err := m.sim.Step(); err != nil {
			m.err = err
			m.running = false
			return
		}
	}
	ke := metrics.KineticEnergy(m.sim.Particles(), m.sim.Config().Dt)
	m.kinetic = append(m.kinetic, ke)
	if len(m.kinetic) > historyCapacity {
		m.kinetic = m.kinetic[1:]
	}
}

func (m *Model) reset() {
	if err := m.sim.Reset(); err != nil {
		m.err = err
		m.running = false
		return
	}
	m.err = nil
	m.status = ""
	m.kinetic = m.kinetic[:0]
	m.running = true
}

// toggle flips the i-th force in configuration order.
func (m *Model) toggle(i int) {
	forces := m.sim.Forces()
	if i < 0 || i >= len(forces) {
		return
	}
	on, err := m.sim.ToggleForce(forces[i].Name)
	if err != nil {
		m.status = err.Error()
		return
	}
	state := "off"
	if on {
		state = "on"
	}
	m.status = forces[i].Name + " " + state
}

func (m *Model) release() {
	if m.pointer {
		m.sim.ReleasePointer()
		m.pointer = false
	}
}

func (m *Model) resize(w, h int) {
	cw, ch := w-statsWidth-2*canvasPadLeft, h-2*canvasPadTop
	if cw < 10 || ch < 4 {
		return
	}
	m.width, m.height = cw, ch
	m.canvas = NewCanvas(cw, ch)
}

// scale maps world units to canvas sub-pixels, preserving aspect.
func (m *Model) scale() float64 {
	cfg := m.sim.Config()
	sx := float64(m.width*2) / cfg.Width
	sy := float64(m.height*4) / cfg.Height
	return math.Min(sx, sy)
}

// project maps a world point to sub-pixel coordinates.
func (m *Model) project(x, y float64) (int, int) {
	s := m.scale()
	return int(x * s), int(y * s)
}

// unproject maps a terminal cell to the world point under its centre.
func (m *Model) unproject(col, row int) (x, y float64, ok bool) {
	col -= canvasPadLeft
	row -= canvasPadTop
	if col < 0 || row < 0 || col >= m.width || row >= m.height {
		return 0, 0, false
	}
	s := m.scale()
	x = (float64(col)*2 + 1) / s
	y = (float64(row)*4 + 2) / s
	cfg := m.sim.Config()
	if x > cfg.Width || y > cfg.Height {
		return 0, 0, false
	}
	return x, y, true
}

func (m *Model) mouse(msg tea.MouseMsg) {
	if m.showHelp {
		return
	}
	if msg.Action == tea.MouseActionRelease {
		return
	}
	x, y, ok := m.unproject(msg.X, msg.Y)
	if !ok {
		m.release()
		return
	}
	m.sim.UpdatePointerTarget(x, y)
	m.pointer = true
}

// draw renders particles, the optional tree overlay and the lens outline.
func (m *Model) draw() {
	m.canvas.Clear()
	s := m.scale()

	if m.showTree {
		m.sim.Tree().Walk(func(_ quadtree.Handle, n quadtree.Node) bool {
			if n.Kind != quadtree.Internal || n.Depth >= treeDepthLimit {
				return false
			}
			half := n.Size / 2
			x0, y0 := m.project(n.CX-half, n.CY-half)
			x1, y1 := m.project(n.CX+half, n.CY+half)
			m.canvas.DrawRect(x0, y0, x1, y1)
			return true
		})
	}

	if lens := m.sim.Lens(); lens != nil {
		fx, fy := lens.Focus()
		cx, cy := m.project(fx, fy)
		m.canvas.DrawCircle(cx, cy, int(lens.Radius()*s))
	}

	m.view = m.sim.ViewInto(m.view)
	for _, p := range m.view {
		cx, cy := m.project(p.X, p.Y)
		r := int(p.Radius * s)
		switch {
		case r < 1:
			m.canvas.Set(cx, cy)
		case p.Fixed:
			m.canvas.FillCircle(cx, cy, r)
		default:
			m.canvas.DrawCircle(cx, cy, r)
		}
	}
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(lipgloss.NewStyle().Foreground(CurrentTheme.Particles).Render(m.canvas.String()))

	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper(m.name)) + "\n")

	status, color := "RUNNING", CurrentTheme.Success
	switch {
	case m.err != nil:
		status, color = "HALTED", CurrentTheme.Error
	case !m.running:
		status, color = "PAUSED", CurrentTheme.Warning
	}
	if m.recording {
		status += " ● REC"
	}
	s.WriteString(statusStyle(color).Render(status) + "\n\n")

	if len(m.kinetic) > 1 {
		chart := asciigraph.Plot(m.kinetic, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	c := m.sim.Counters()
	cfg := m.sim.Config()
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2f", m.sim.Time()))
	row("Steps", humanize.Comma(int64(m.sim.Steps())))
	row("Particles", humanize.Comma(int64(cfg.N)))
	row("Steps/frame", fmt.Sprintf("%d", m.stepsPerFrame))
	row("Approx", humanize.Comma(c.Last.Approximated))
	row("Exact", humanize.Comma(c.Last.Exact))
	row("Corrections", humanize.Comma(int64(c.Last.Corrections)))
	row("Nodes", humanize.Comma(int64(m.sim.Tree().Len())))

	if forces := m.sim.Forces(); len(forces) > 0 {
		names := make([]string, len(forces))
		on := make([]bool, len(forces))
		for i, f := range forces {
			names[i], on[i] = f.Name, f.Enabled
		}
		s.WriteString("\nFORCES\n" + ToggleBar(names, on) + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + statusStyle(CurrentTheme.Error).Render(wrap(m.err.Error(), statsWidth-6)) + "\n")
	} else if m.status != "" {
		s.WriteString("\n" + valueStyle.Render(m.status) + "\n")
	}

	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause R:Reset Q:Quit\nD:Tree T:Theme G:Record\n1-9:Forces +/-:Speed ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset simulation         ║
║  Q        - Quit                     ║
║  1-9      - Toggle force by index    ║
║  Mouse    - Move pointer target      ║
║  Esc      - Release pointer          ║
║  +/-      - Steps per frame          ║
║  D        - Toggle tree overlay      ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func wrap(s string, w int) string {
	var b strings.Builder
	for len(s) > w {
		b.WriteString(s[:w] + "\n")
		s = s[w:]
	}
	b.WriteString(s)
	return b.String()
}

// Run starts the live view for s in the alternate screen with mouse motion.
func Run(s *sim.Simulation, name string) error {
	_, err := tea.NewProgram(NewModel(s, name), tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
