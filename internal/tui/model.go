// Package tui is the terminal dashboard: live temperatures, battery and
// power state with a power-profile picker.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"armoury/internal/app"
	"armoury/internal/power"
)

// Controller defines the subset of app.App behaviour the TUI needs.
type Controller interface {
	Status() (app.DaemonStatus, error)
	StartDaemon() (*app.DaemonHandle, error)
	SystemStatus(context.Context, app.StatusParams) (app.SystemStatus, error)
	ApplyPowerProfile(context.Context, app.PowerProfileParams) (app.PowerProfileResult, error)
}

const (
	requestTimeout = 4 * time.Second
	// temperature shown as a full bar
	tempScale = 100.0
)

var (
	okStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	boxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MarginBottom(1)
	labelW    = lipgloss.NewStyle().Width(10)
)

// Model represents the Bubble Tea state.
type Model struct {
	controller Controller
	interval   time.Duration

	list     list.Model
	cpuBar   progress.Model
	gpuBar   progress.Model
	batBar   progress.Model
	status   app.SystemStatus
	hasStats bool

	daemonStatus app.DaemonStatus
	daemon       *app.DaemonHandle
	statusMsg    string

	err      error
	applying bool

	width  int
	height int

	lastUpdated time.Time
}

// New constructs a TUI model polling every interval.
func New(ctrl Controller, interval time.Duration) *Model {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	items := make([]list.Item, 0, len(power.Presets))
	for _, p := range power.Presets {
		items = append(items, presetItem{p})
	}
	lst := list.New(items, list.NewDefaultDelegate(), 0, 0)
	lst.Title = "Power profiles"
	lst.SetShowHelp(false)
	lst.SetFilteringEnabled(false)
	lst.DisableQuitKeybindings()

	bar := func() progress.Model {
		return progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))
	}
	return &Model{
		controller: ctrl,
		interval:   interval,
		list:       lst,
		cpuBar:     bar(),
		gpuBar:     bar(),
		batBar:     progress.New(progress.WithSolidFill("42"), progress.WithWidth(30)),
		statusMsg:  "Checking daemon status…",
	}
}

// Run spins up the Bubble Tea program. A daemon started from the
// dashboard is stopped when it exits.
func Run(ctrl Controller, interval time.Duration) error {
	m := New(ctrl, interval)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err := prog.Run()
	if closeErr := m.daemon.Close(); err == nil {
		err = closeErr
	}
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(checkDaemonStatusCmd(m.controller), loadStatusCmd(m.controller), tickCmd(m.interval))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.height > 14 {
			m.list.SetSize(msg.Width, msg.Height-14)
		}

	case tickMsg:
		return m, tea.Batch(loadStatusCmd(m.controller), checkDaemonStatusCmd(m.controller), tickCmd(m.interval))

	case daemonStatusMsg:
		m.daemonStatus = msg.status
		switch {
		case msg.status.Running && msg.status.PID > 0:
			m.statusMsg = fmt.Sprintf("Daemon running (pid %d)", msg.status.PID)
		case msg.status.Running:
			m.statusMsg = "Daemon running"
		default:
			m.statusMsg = "Daemon is not running. Press s to start it."
		}

	case statusLoadedMsg:
		m.status = msg.status
		m.hasStats = true
		m.err = nil
		m.lastUpdated = time.Now()

	case profileAppliedMsg:
		m.applying = false
		m.err = nil
		m.statusMsg = msg.result.Message
		if msg.result.RefreshError != "" {
			m.statusMsg += " (refresh rate: " + msg.result.RefreshError + ")"
		}
		return m, loadStatusCmd(m.controller)

	case daemonStartedMsg:
		m.daemon = msg.handle
		m.statusMsg = "Daemon started."
		return m, checkDaemonStatusCmd(m.controller)

	case errMsg:
		m.applying = false
		m.err = msg.err

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			return m, tea.Batch(loadStatusCmd(m.controller), checkDaemonStatusCmd(m.controller))
		case "s":
			if !m.daemonStatus.Running && m.daemon == nil {
				m.statusMsg = "Starting daemon…"
				return m, startDaemonCmd(m.controller)
			}
		case "enter":
			if item, ok := m.list.SelectedItem().(presetItem); ok && !m.applying {
				m.applying = true
				m.statusMsg = "Applying " + item.preset.Name + "…"
				return m, applyProfileCmd(m.controller, item.preset.Name)
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	style := okStyle
	if !m.daemonStatus.Running {
		style = errStyle
	}
	b.WriteString(style.Render(m.statusMsg))
	b.WriteByte('\n')
	if m.err != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteByte('\n')
	}

	if m.hasStats {
		b.WriteString(boxStyle.Render(m.statsView()))
	} else {
		b.WriteString("Reading sensors…")
	}
	b.WriteByte('\n')

	b.WriteString(m.list.View())
	b.WriteByte('\n')

	help := "Commands: q quit • r refresh • enter apply profile"
	if !m.daemonStatus.Running {
		help += " • s start daemon"
	}
	if !m.lastUpdated.IsZero() {
		help += fmt.Sprintf(" • last update %s", m.lastUpdated.Format(time.Kitchen))
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func (m *Model) statsView() string {
	st := m.status
	var rows []string
	rows = append(rows, m.tempRow("CPU", st.CPUTemp, m.cpuBar))
	rows = append(rows, m.tempRow("GPU", st.GPUTemp, m.gpuBar))

	bat := labelW.Render("Battery") + "n/a"
	if st.Battery != nil {
		bat = labelW.Render("Battery") + m.batBar.ViewAs(float64(*st.Battery)/100)
	}
	source := "battery"
	if st.OnAC {
		source = "AC"
	}
	rows = append(rows, bat+"  on "+source)

	profile := valueOrDash(st.Profile)
	refresh := "-"
	if st.RefreshRate != nil {
		refresh = fmt.Sprintf("%d Hz", *st.RefreshRate)
	}
	rows = append(rows, fmt.Sprintf("%s%s   refresh %s   cpu load %.0f%%", labelW.Render("Profile"), profile, refresh, st.CPULoad))
	if st.Gaming {
		rows = append(rows, warnStyle.Render("Gaming session detected"))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) tempRow(label string, temp *float64, bar progress.Model) string {
	if temp == nil {
		return labelW.Render(label) + "n/a"
	}
	pct := min(*temp/tempScale, 1)
	text := fmt.Sprintf(" %.1f°C", *temp)
	switch {
	case *temp >= 95:
		text = errStyle.Render(text)
	case *temp >= 85:
		text = warnStyle.Render(text)
	}
	return labelW.Render(label) + bar.ViewAs(pct) + text
}

// presetItem adapts power.Preset to the bubbles list item interface.
type presetItem struct {
	preset power.Preset
}

func (p presetItem) Title() string { return p.preset.Name }

func (p presetItem) Description() string {
	return fmt.Sprintf("%dW • %dHz • %s", p.preset.TDP, p.preset.Refresh, p.preset.Description)
}

func (p presetItem) FilterValue() string { return p.preset.Name }

func valueOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

type tickMsg time.Time

type daemonStatusMsg struct {
	status app.DaemonStatus
}

type statusLoadedMsg struct {
	status app.SystemStatus
}

type profileAppliedMsg struct {
	result app.PowerProfileResult
}

type daemonStartedMsg struct {
	handle *app.DaemonHandle
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func checkDaemonStatusCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		status, err := ctrl.Status()
		if err != nil {
			return errMsg{err}
		}
		return daemonStatusMsg{status: status}
	}
}

func loadStatusCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		st, err := ctrl.SystemStatus(ctx, app.StatusParams{Timeout: requestTimeout})
		if err != nil {
			return errMsg{err}
		}
		return statusLoadedMsg{status: st}
	}
}

func applyProfileCmd(ctrl Controller, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		res, err := ctrl.ApplyPowerProfile(ctx, app.PowerProfileParams{Name: name, Timeout: 30 * time.Second})
		if err != nil {
			return errMsg{err}
		}
		return profileAppliedMsg{result: res}
	}
}

func startDaemonCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		h, err := ctrl.StartDaemon()
		if err != nil {
			return errMsg{err}
		}
		// Give the daemon a moment to bind the socket.
		time.Sleep(300 * time.Millisecond)
		return daemonStartedMsg{handle: h}
	}
}
