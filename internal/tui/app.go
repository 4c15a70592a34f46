package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/wogix/internal/cfilter"
	"github.com/1broseidon/wogix/internal/ipc"
	"github.com/1broseidon/wogix/internal/wm"
)

// Source is the daemon surface the window view polls.
type Source interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows(filter string) (*ipc.WindowsData, error)
	Reconcile() (*ipc.ReconcileData, error)
}

type tickMsg time.Time

type refreshMsg struct {
	status  *ipc.StatusData
	windows *ipc.WindowsData
	err     error
}

type reconcileMsg struct {
	withdrawn int
	err       error
}

// model is the root bubbletea model for the window view.
type model struct {
	source   Source
	interval time.Duration

	// Filter applied to LIST_WINDOWS; empty lists everything.
	filter  string
	input   textinput.Model
	editing bool

	// Daemon state
	connected   bool
	status      *ipc.StatusData
	windows     []wm.Snapshot
	shownFilter string

	lastError string
	notice    string

	width  int
	height int
}

func newModel(source Source, interval time.Duration, filter string) model {
	ti := textinput.New()
	ti.Placeholder = "e.g. mapped, {name: xterm}, {not: {re_title: '^vim'}}"
	ti.CharLimit = 256
	ti.Prompt = "filter> "

	if interval <= 0 {
		interval = time.Second
	}
	return model{
		source:   source,
		interval: interval,
		filter:   filter,
		input:    ti,
	}
}

func (m model) refresh() tea.Cmd {
	source, filter := m.source, m.filter
	return func() tea.Msg {
		status, err := source.GetStatus()
		if err != nil {
			return refreshMsg{err: err}
		}
		windows, err := source.ListWindows(filter)
		if err != nil {
			return refreshMsg{status: status, err: err}
		}
		return refreshMsg{status: status, windows: windows}
	}
}

func (m model) reconcile() tea.Cmd {
	source := m.source
	return func() tea.Msg {
		data, err := source.Reconcile()
		if err != nil {
			return reconcileMsg{err: err}
		}
		return reconcileMsg{withdrawn: len(data.Withdrawn)}
	}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tea.Batch(m.refresh(), m.tick())

	case refreshMsg:
		m.applyRefresh(msg)
		return m, nil

	case reconcileMsg:
		if msg.err != nil {
			m.lastError = msg.err.Error()
		} else {
			m.notice = fmt.Sprintf("reconciled: %d window(s) withdrawn", msg.withdrawn)
		}
		return m, m.refresh()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-len(m.input.Prompt)-2, 10)
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "/":
			m.editing = true
			m.input.SetValue(m.filter)
			m.input.CursorEnd()
			m.input.Focus()
			return m, textinput.Blink
		case "m":
			if m.filter == "mapped" {
				return m.setFilter("")
			}
			return m.setFilter("mapped")
		case "a":
			return m.setFilter("")
		case "r":
			return m, m.reconcile()
		}
	}
	return m, nil
}

func (m model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.editing = false
		m.input.Blur()
		return m.setFilter(strings.TrimSpace(m.input.Value()))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// setFilter validates filter locally before asking the daemon for it.
func (m model) setFilter(filter string) (tea.Model, tea.Cmd) {
	if filter != "" {
		if _, err := cfilter.Parse(filter); err != nil {
			m.lastError = err.Error()
			return m, nil
		}
	}
	m.filter = filter
	m.lastError = ""
	m.notice = ""
	return m, m.refresh()
}

func (m *model) applyRefresh(msg refreshMsg) {
	if msg.status == nil {
		m.connected = false
		m.status = nil
		m.windows = nil
		m.lastError = ""
		return
	}
	m.connected = true
	m.status = msg.status
	if msg.err != nil {
		m.lastError = msg.err.Error()
		return
	}
	m.lastError = ""
	m.windows = msg.windows.Windows
	m.shownFilter = msg.windows.Filter
}

// View implements tea.Model.
func (m model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	sections := []string{renderStatusBar(m.connected, m.status, width)}

	if m.editing {
		sections = append(sections, lipgloss.NewStyle().Padding(0, 1).Render(m.input.View()))
	} else {
		shown := m.shownFilter
		if shown == "" {
			shown = "true"
		}
		sections = append(sections, filterStyle.Width(width).Render("filter: "+shown))
	}

	switch {
	case !m.connected:
		sections = append(sections, placeholderStyle.Width(width).Render("waiting for wogix daemon..."))
	case len(m.windows) == 0:
		sections = append(sections, placeholderStyle.Width(width).Render("no matching windows"))
	default:
		sections = append(sections, RenderTable(m.windows, width))
	}

	if m.lastError != "" {
		sections = append(sections, errorStyle.Width(width).Render(m.lastError))
	} else if m.notice != "" {
		sections = append(sections, noticeStyle.Width(width).Render(m.notice))
	}

	sections = append(sections, renderHelpBar(m.editing, width))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
