package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/chaoseq/internal/sim"
	"github.com/san-kum/chaoseq/internal/trail"
)

const (
	sidebarWidth    = 40
	historyCapacity = 120
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2).Width(sidebarWidth)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	equStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	runStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model drives a controller from the bubbletea event loop and draws its
// trail buffer into a fading braille canvas.
type Model struct {
	ctrl      *sim.Controller
	canvas    *Canvas
	frameRate int
	steps     []float64
	last      sim.FrameReport
	showHelp  bool
}

// NewModel sizes the canvas to w x h cells and points the controller at it.
func NewModel(ctrl *sim.Controller, w, h, frameRate int) Model {
	if frameRate <= 0 {
		frameRate = 30
	}
	canvas := NewCanvas(w, h)
	ctrl.SetScreen(canvas.Screen())
	return Model{
		ctrl:      ctrl,
		canvas:    canvas,
		frameRate: frameRate,
		steps:     make([]float64, 0, historyCapacity),
	}
}

// KeyCommand maps a key to a controller command. Terminals cannot report a
// lone shift press, so speeds also sit on the number row.
func KeyCommand(key string) sim.Command {
	switch key {
	case "q", "esc", "ctrl+c":
		return sim.CmdQuit
	case "p":
		return sim.CmdTogglePause
	case "1", "<":
		return sim.CmdSpeedSlow
	case "2", " ":
		return sim.CmdSpeedNormal
	case "3", ">":
		return sim.CmdSpeedFast
	case "c":
		return sim.CmdCenter
	case "r":
		return sim.CmdResetView
	case "n":
		return sim.CmdShuffle
	case "k":
		return sim.CmdCyclePalette
	}
	return sim.CmdNone
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "?" {
			m.showHelp = !m.showHelp
			return m, nil
		}
		if m.ctrl.Tick(KeyCommand(msg.String())) {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		w, h := msg.Width-sidebarWidth-4, msg.Height-1
		if w > 0 && h > 0 && (w != m.canvas.Width || h != m.canvas.Height) {
			m.canvas = NewCanvas(w, h)
			m.ctrl.SetScreen(m.canvas.Screen())
		}
	case TickMsg:
		m.last = m.ctrl.Frame()
		if !m.last.Paused {
			m.draw()
			m.steps = append(m.steps, math.Log10(m.last.Stats.RollingDelta))
			if len(m.steps) > historyCapacity {
				m.steps = m.steps[1:]
			}
		}
		return m, m.tick()
	}
	return m, nil
}

// draw fades the canvas and plots the current trail buffer on top.
func (m *Model) draw() {
	m.canvas.Fade(m.ctrl.Fade().Level)
	m.ctrl.Trail().EachVisible(m.canvas.Screen(), func(p trail.Point) {
		m.canvas.Plot(p.X, p.Y, p.Color)
	})
}

// View renders the TUI interface.
func (m Model) View() string {
	st := m.ctrl.State()

	var s strings.Builder
	s.WriteString(headerStyle.Render("CHAOS EQUATIONS") + "\n")
	if st.Paused {
		s.WriteString(pausedStyle.Render("PAUSED") + "\n\n")
	} else {
		s.WriteString(runStyle.Render("RUNNING") + "\n\n")
	}
	s.WriteString(equStyle.Render(m.ctrl.Label()) + "\n\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(m.ctrl.TimeLabel()) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("x%.1f", st.Speed)) + "\n")
	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%.3e", st.RollingDelta)) + "\n")
	s.WriteString(labelStyle.Render("Scale") + valueStyle.Render(fmt.Sprintf("%.3f", st.View.Scale)) + "\n")
	s.WriteString(labelStyle.Render("Frame") + valueStyle.Render(fmt.Sprintf("%d", m.ctrl.Frames())) + "\n")
	if m.last.Stats.VisibleSteps+m.last.Stats.OffscreenSteps > 0 {
		s.WriteString(labelStyle.Render("On screen") + valueStyle.Render(fmt.Sprintf("%d/%d", m.last.Stats.VisibleSteps, m.last.Stats.VisibleSteps+m.last.Stats.OffscreenSteps)) + "\n")
	}

	if len(m.steps) > 1 {
		chart := asciigraph.Plot(m.steps, asciigraph.Height(5), asciigraph.Width(sidebarWidth-12), asciigraph.Caption("log10 step"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	if m.showHelp {
		s.WriteString(helpStyle.Render("\nP        pause/resume\n1 <      slow\n2 space  normal\n3 >      fast\nC        center\nR        reset view\nN        new equation\nK        next palette\nQ esc    quit"))
	} else {
		s.WriteString(helpStyle.Render("\nP:Pause C:Center N:New Q:Quit ?:Help"))
	}

	canvasView := canvasStyle.Render(m.canvas.Render())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}
