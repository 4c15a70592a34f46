package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/wogix/internal/ipc"
	"github.com/1broseidon/wogix/internal/wm"
)

type fakeSource struct {
	windows    []wm.Snapshot
	filters    []string
	reconciled int
	err        error
}

func (s *fakeSource) GetStatus() (*ipc.StatusData, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &ipc.StatusData{
		DaemonRunning: true,
		WindowCount:   len(s.windows),
		Screen:        ipc.Rect{Width: 1920, Height: 1080},
		WorkArea:      ipc.Rect{Y: 24, Width: 1920, Height: 1056},
	}, nil
}

func (s *fakeSource) ListWindows(filter string) (*ipc.WindowsData, error) {
	s.filters = append(s.filters, filter)
	shown := filter
	if shown == "" {
		shown = "true"
	}
	return &ipc.WindowsData{Filter: shown, Windows: s.windows}, nil
}

func (s *fakeSource) Reconcile() (*ipc.ReconcileData, error) {
	s.reconciled++
	return &ipc.ReconcileData{Withdrawn: []uint32{9, 10}}, nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step feeds msg to m and runs the returned command once.
func step(t *testing.T, m model, msg tea.Msg) (model, tea.Msg) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm := next.(model)
	if cmd == nil {
		return nm, nil
	}
	return nm, cmd()
}

func str(s string) *string { return &s }

func testWindows() []wm.Snapshot {
	return []wm.Snapshot{
		{ID: 0x400001, ResourceName: str("xterm"), ResourceClass: str("XTerm"), Title: "shell", Mapped: true, Focused: true, Width: 640, Height: 480},
		{ID: 0x600002, Title: "untitled", Width: 100, Height: 100, X: 5, Y: 6},
	}
}

func TestRefreshPopulatesView(t *testing.T) {
	src := &fakeSource{windows: testWindows()}
	m := newModel(src, 0, "")

	msg := m.refresh()()
	m, _ = step(t, m, msg)

	if !m.connected || len(m.windows) != 2 || m.shownFilter != "true" {
		t.Fatalf("model after refresh: connected=%v windows=%d filter=%q", m.connected, len(m.windows), m.shownFilter)
	}
	view := m.View()
	for _, want := range []string{"daemon connected", "windows:2", "work:1920x1056+0+24", "0x400001", "xterm", "0x600002"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestDaemonDown(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	m := newModel(src, 0, "")
	m, _ = step(t, m, m.refresh()())

	if m.connected {
		t.Fatal("expected disconnected model")
	}
	if view := m.View(); !strings.Contains(view, "daemon not running") {
		t.Errorf("view = %q", view)
	}
}

func TestMappedToggle(t *testing.T) {
	src := &fakeSource{windows: testWindows()}
	m := newModel(src, 0, "")

	m, msg := step(t, m, key("m"))
	if m.filter != "mapped" {
		t.Fatalf("filter = %q, want mapped", m.filter)
	}
	if _, ok := msg.(refreshMsg); !ok {
		t.Fatalf("expected refresh, got %T", msg)
	}
	if got := src.filters[len(src.filters)-1]; got != "mapped" {
		t.Errorf("daemon got filter %q", got)
	}

	m, _ = step(t, m, key("m"))
	if m.filter != "" {
		t.Errorf("second toggle filter = %q, want empty", m.filter)
	}
}

func TestEditFilter(t *testing.T) {
	src := &fakeSource{windows: testWindows()}
	m := newModel(src, 0, "")

	m, _ = step(t, m, key("/"))
	if !m.editing {
		t.Fatal("expected editing mode")
	}
	m.input.SetValue("{name: xterm}")
	m, msg := step(t, m, key("enter"))
	if m.editing || m.filter != "{name: xterm}" {
		t.Fatalf("editing=%v filter=%q", m.editing, m.filter)
	}
	if _, ok := msg.(refreshMsg); !ok {
		t.Fatalf("expected refresh, got %T", msg)
	}
}

func TestEditFilterRejectsInvalid(t *testing.T) {
	src := &fakeSource{}
	m := newModel(src, 0, "mapped")

	m, _ = step(t, m, key("/"))
	m.input.SetValue("{re_name: '['}")
	m, msg := step(t, m, key("enter"))
	if msg != nil {
		t.Fatalf("invalid filter should not refresh, got %T", msg)
	}
	if m.filter != "mapped" || m.lastError == "" {
		t.Errorf("filter=%q lastError=%q", m.filter, m.lastError)
	}
	if len(src.filters) != 0 {
		t.Errorf("daemon was queried with %v", src.filters)
	}
}

func TestEditFilterCancel(t *testing.T) {
	m := newModel(&fakeSource{}, 0, "mapped")
	m, _ = step(t, m, key("/"))
	m.input.SetValue("{name: other}")
	m, msg := step(t, m, key("esc"))
	if m.editing || m.filter != "mapped" || msg != nil {
		t.Errorf("editing=%v filter=%q msg=%T", m.editing, m.filter, msg)
	}
}

func TestQuitKeysIgnoredWhileEditing(t *testing.T) {
	m := newModel(&fakeSource{}, 0, "")
	m, _ = step(t, m, key("/"))
	next, _ := m.Update(key("q"))
	m = next.(model)
	if !m.editing || m.input.Value() != "q" {
		t.Errorf("editing=%v value=%q", m.editing, m.input.Value())
	}
}

func TestReconcileKey(t *testing.T) {
	src := &fakeSource{windows: testWindows()}
	m := newModel(src, 0, "")

	m, msg := step(t, m, key("r"))
	if src.reconciled != 1 {
		t.Fatalf("reconciled = %d", src.reconciled)
	}
	m, _ = step(t, m, msg)
	if m.notice != "reconciled: 2 window(s) withdrawn" {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestQuit(t *testing.T) {
	m := newModel(&fakeSource{}, 0, "")
	_, msg := step(t, m, key("q"))
	if _, ok := msg.(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", msg)
	}
}
