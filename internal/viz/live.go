package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/blobsim/internal/engine"
	"github.com/san-kum/blobsim/internal/settings"
)

const (
	historyCapacity = 120
	panelWidth      = 46
	// wheelStep is the wheel delta of one terminal scroll notch.
	wheelStep = 100
)

var (
	canvasStyle      = lipgloss.NewStyle().Padding(1, 2)
	statsStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(panelWidth)
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	tweenStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// canvas padding from canvasStyle, in cells
const padTop, padLeft = 1, 2

type TickMsg time.Time

// Model is the live terminal view of one engine. The engine runs on the
// Bubble Tea goroutine, one frame per tick.
type Model struct {
	eng      *engine.Engine
	renderer *Renderer
	interval time.Duration

	running  bool
	selected int
	showHelp bool
	energy   []float64
	last     engine.FrameStats
	err      error
}

// NewModel wraps an engine built with renderer as its engine.Renderer.
func NewModel(eng *engine.Engine, renderer *Renderer) Model {
	eng.Rig().Aspect = renderer.Aspect()
	return Model{
		eng:      eng,
		renderer: renderer,
		interval: eng.Config().Timestep(),
		running:  true,
		energy:   make([]float64, 0, historyCapacity),
	}
}

// Err is the frame error that ended the program, if any.
func (m Model) Err() error { return m.err }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		w := max(msg.Width-panelWidth-2*padLeft-2, 10)
		h := max(msg.Height-2*padTop-2, 5)
		m.renderer.Resize(w, h)
		m.eng.Rig().Aspect = m.renderer.Aspect()
	case TickMsg:
		if m.running {
			if err := m.step(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() error {
	st, err := m.eng.Frame()
	if err != nil {
		return err
	}
	m.last = st
	if len(m.energy) == historyCapacity {
		m.energy = m.energy[1:]
	}
	m.energy = append(m.energy, st.KineticEnergy)
	return nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := settings.Keys[m.selected]
	switch s := msg.String(); s {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "space":
		m.running = !m.running
	case "?":
		m.showHelp = !m.showHelp
	case "n":
		m.eng.Push(engine.NextPreset{})
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.eng.Push(engine.SelectPreset{Index: int(s[0] - '1')})
	case "tab":
		m.selected = (m.selected + 1) % len(settings.Keys)
	case "shift+tab":
		m.selected = (m.selected + len(settings.Keys) - 1) % len(settings.Keys)
	case "up", "k":
		m.adjust(key, 1)
	case "down", "j":
		m.adjust(key, -1)
	case "r":
		m.eng.Push(engine.ResetControl{Key: key})
	}
	return m, nil
}

// adjust nudges a control by its step as if typed into its input.
func (m Model) adjust(k settings.Key, dir float64) {
	ctl, _ := settings.ControlFor(k)
	v, _ := m.eng.Settings().Get(k)
	m.eng.Push(engine.SetControl{Key: k, Raw: settings.FormatValue(v + dir*ctl.Step)})
}

func (m Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.eng.Push(engine.Wheel{Delta: -wheelStep})
		return
	case tea.MouseButtonWheelDown:
		m.eng.Push(engine.Wheel{Delta: wheelStep})
		return
	}
	if msg.Action != tea.MouseActionMotion {
		return
	}
	w, h := m.renderer.Size()
	col, row := msg.X-padLeft, msg.Y-padTop
	if col < 0 || row < 0 || col >= w || row >= h {
		return
	}
	m.eng.Push(engine.Pointer{
		X: (float64(col)+0.5)/float64(w)*2 - 1,
		Y: 1 - (float64(row)+0.5)/float64(h)*2,
	})
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.renderer.Frame())
	st := m.last

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(st.Preset)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	} else if st.Transitioning {
		status = "TRANSITIONING"
	}
	s.WriteString(status + "\n\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", st.Elapsed))
	row("Blobs", fmt.Sprintf("%d", st.Influences))
	tri := fmt.Sprintf("%d", st.Triangles)
	if st.Truncated {
		tri += " (budget)"
	}
	row("Triangles", tri)
	row("Spread", fmt.Sprintf("%.3f", st.Spread))
	row("Offset", fmt.Sprintf("%+.2f", st.Offset))

	s.WriteString("\nCONTROLS\n")
	tweening := make(map[settings.Key]bool)
	for _, k := range m.eng.State().Tweening() {
		tweening[k] = true
	}
	cur := m.eng.Settings()
	for i, k := range settings.Keys {
		ctl, _ := settings.ControlFor(k)
		v, _ := cur.Get(k)
		line := fmt.Sprintf("%-18s %s", ctl.Label, settings.FormatValue(v))
		switch {
		case i == m.selected:
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		case tweening[k]:
			s.WriteString("  " + tweenStyle.Render(line) + "\n")
		default:
			s.WriteString("  " + labelStyle.Width(0).Render(line) + "\n")
		}
	}
	s.WriteString(helpStyle.Render("\n─────────────────────\nN:Next 1-9:Preset Q:Quit\nTab:Control ↑↓:Tune R:Reset\nSP:Pause ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText(m.eng.State().Presets()) + "\n\n" + mainView
	}
	return mainView
}

func helpText(presets []settings.Preset) string {
	var b strings.Builder
	b.WriteString("PRESETS\n")
	for i, p := range presets {
		fmt.Fprintf(&b, "  %d  %s\n", i+1, p.Name)
	}
	b.WriteString("\nMouse moves the pointer ball, the wheel pushes the blob away or pulls it closer.")
	return helpStyle.Render(b.String())
}
