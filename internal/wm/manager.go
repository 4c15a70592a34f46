// Package wm keeps the registry of managed windows and feeds it with
// adoption, withdrawal and state notifications.
//
// The event loop, the reconciler and the inspection tools all reach the
// registry through a Manager, which serialises them with one mutex. The
// client.Window values it owns are never handed out; callers get ids and
// Snapshots instead.
package wm

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/wogix/internal/cfilter"
	"github.com/1broseidon/wogix/internal/client"
	"github.com/1broseidon/wogix/internal/platform"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// ErrUnknownWindow is returned for ids the manager does not hold.
var ErrUnknownWindow = errors.New("window not managed")

// Filters selects windows for the manager's policies. Nil fields fall back
// to DefaultFilters.
type Filters struct {
	FullScreen     cfilter.Filter
	Frame          cfilter.Filter
	Cycle          cfilter.Filter
	StartIconified cfilter.Filter
}

// DefaultFilters frames and cycles every window, starts none iconified and
// keeps all of them inside the work area.
func DefaultFilters() Filters {
	return Filters{
		FullScreen:     cfilter.False,
		Frame:          cfilter.All,
		Cycle:          cfilter.All,
		StartIconified: cfilter.False,
	}
}

func (f Filters) withDefaults() Filters {
	d := DefaultFilters()
	if f.FullScreen == nil {
		f.FullScreen = d.FullScreen
	}
	if f.Frame == nil {
		f.Frame = d.Frame
	}
	if f.Cycle == nil {
		f.Cycle = d.Cycle
	}
	if f.StartIconified == nil {
		f.StartIconified = d.StartIconified
	}
	return f
}

// Watcher subscribes to the events of individual windows.
type Watcher interface {
	// Watch starts delivering the events of id to deliver. The returned
	// function stops delivery.
	Watch(id platform.WindowID, deliver func(xgb.Event)) (detach func(), err error)
	// TitleAtom reports whether a property change of atom affects the title.
	TitleAtom(atom xproto.Atom) bool
}

// Manager owns the managed windows.
type Manager struct {
	mu        sync.Mutex
	transport platform.Transport
	screen    *client.Screen
	filters   Filters
	watcher   Watcher
	logger    *slog.Logger

	clients map[platform.WindowID]*client.Window
	order   []platform.WindowID
	focused platform.WindowID
}

// NewManager creates a manager placing windows on screen. A nil logger
// discards log output.
func NewManager(t platform.Transport, screen *client.Screen, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := &Manager{
		transport: t,
		screen:    screen,
		logger:    logger,
		clients:   make(map[platform.WindowID]*client.Window),
	}
	m.SetFilters(Filters{})
	return m
}

// SetFilters replaces the policy filters. Windows already adopted are not
// re-evaluated against StartIconified.
func (m *Manager) SetFilters(f Filters) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filters = f.withDefaults()
	m.screen.FullScreenWindows = m.filters.FullScreen
}

// SetWatcher installs the per-window event source used for windows adopted
// from now on.
func (m *Manager) SetWatcher(w Watcher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watcher = w
}

// SetScreenArea updates the full extent and work area shared by all windows.
func (m *Manager) SetScreenArea(full, work platform.Rect) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.screen.Full = full
	m.screen.Work = work
}

// ScreenArea returns the full extent and the work area.
func (m *Manager) ScreenArea() (full, work platform.Rect) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.screen.Full, m.screen.Work
}

// Adopt takes id under management. It reports false without error when id
// is already managed or is an override-redirect window.
func (m *Manager) Adopt(id platform.WindowID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[id]; ok {
		return false, nil
	}
	attrs, err := m.transport.QueryAttributes(id)
	if err != nil {
		return false, fmt.Errorf("adopt 0x%x: %w", uint32(id), err)
	}
	if attrs.OverrideRedirect {
		return false, nil
	}

	w, err := client.New(m.transport, m.screen, id, nil)
	if err != nil {
		return false, fmt.Errorf("adopt: %w", err)
	}

	d := m.dispatcher(w)
	if m.watcher != nil {
		detach, err := m.watcher.Watch(id, func(ev xgb.Event) { m.Route(id, ev) })
		if err != nil {
			return false, fmt.Errorf("adopt 0x%x: watch: %w", uint32(id), err)
		}
		d.OnDetach(detach)
	}
	w.SetRouter(d)

	m.clients[id] = w
	m.order = append(m.order, id)
	m.logger.Debug("window adopted", "window", w.String())

	if w.IsMapped() && m.filters.StartIconified.Match(w) {
		if _, err := w.Unmap(); err != nil {
			m.logger.Warn("start iconified failed", "window", w.String(), "error", err)
		} else {
			w.Unmapped()
		}
	}
	return true, nil
}

// Withdraw takes id out of management. It reports whether id was managed.
func (m *Manager) Withdraw(id platform.WindowID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.withdrawLocked(id)
}

func (m *Manager) withdrawLocked(id platform.WindowID) bool {
	w, ok := m.clients[id]
	if !ok {
		return false
	}
	w.Withdraw()
	delete(m.clients, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if m.focused == id {
		m.focused = 0
	}
	m.logger.Debug("window withdrawn", "window", w.String())
	return true
}

// Route delivers ev to the router of id. A DestroyNotify withdraws id
// instead. Events for unknown windows are dropped.
func (m *Manager) Route(id platform.WindowID, ev xgb.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.clients[id]
	if !ok {
		return
	}
	if client.KindOf(ev) == client.KindDestroyNotify {
		m.withdrawLocked(id)
		return
	}
	w.HandleEvent(ev, false)
}

func (m *Manager) dispatcher(w *client.Window) *client.Dispatcher {
	d := client.NewDispatcher()
	d.On(client.KindMapNotify, func(xgb.Event, bool) { m.remappedLocked(w) })
	d.On(client.KindUnmapNotify, func(xgb.Event, bool) { w.Unmapped() })
	d.On(client.KindPropertyNotify, func(ev xgb.Event, _ bool) {
		if atom, ok := propertyAtom(ev); ok && m.watcher != nil && !m.watcher.TitleAtom(atom) {
			return
		}
		m.refreshTitleLocked(w)
	})
	d.On(client.KindFocusOut, func(xgb.Event, bool) {
		w.LoseFocus()
		if m.focused == w.ID() {
			m.focused = 0
		}
	})
	return d
}

func propertyAtom(ev xgb.Event) (xproto.Atom, bool) {
	switch e := ev.(type) {
	case xproto.PropertyNotifyEvent:
		return e.Atom, true
	case *xproto.PropertyNotifyEvent:
		return e.Atom, true
	}
	return 0, false
}

// Mapped records that id became visible and issues any deferred geometry.
func (m *Manager) Mapped(id platform.WindowID) (client.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.clients[id]
	if !ok {
		return client.NotApplicable, ErrUnknownWindow
	}
	return m.remappedLocked(w)
}

func (m *Manager) remappedLocked(w *client.Window) (client.Outcome, error) {
	pending := w.DelayedResizePending()
	outcome, err := w.Remapped()
	if err != nil {
		m.logger.Warn("deferred resize failed", "window", w.String(), "error", err)
		return outcome, err
	}
	if pending {
		m.logger.Debug("deferred resize applied", "window", w.String())
	}
	return outcome, nil
}

// Unmapped records that id is no longer visible.
func (m *Manager) Unmapped(id platform.WindowID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.clients[id]
	if !ok {
		return ErrUnknownWindow
	}
	w.Unmapped()
	return nil
}

// TitleChanged re-reads the title of id.
func (m *Manager) TitleChanged(id platform.WindowID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.clients[id]
	if !ok {
		return ErrUnknownWindow
	}
	return m.refreshTitleLocked(w)
}

func (m *Manager) refreshTitleLocked(w *client.Window) error {
	props, err := m.transport.QueryProperties(w.ID())
	if err != nil {
		m.logger.Debug("title refresh failed", "window", w.String(), "error", err)
		return err
	}
	w.SetTitle(props.Title)
	return nil
}

// Len returns the number of managed windows.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

// Windows returns, in adoption order, the ids of the windows accepted by f.
// A nil filter accepts every window.
func (m *Manager) Windows(f cfilter.Filter) []platform.WindowID {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []platform.WindowID
	for _, id := range m.order {
		if f == nil || f.Match(m.clients[id]) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Next returns the window after from, in adoption order, that is accepted
// by both the cycle filter and f. The search wraps around and ends with
// from itself. An unmanaged from starts the search at the first window.
func (m *Manager) Next(from platform.WindowID, f cfilter.Filter) (platform.WindowID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.order)
	if n == 0 {
		return 0, false
	}
	start := 0
	for i, id := range m.order {
		if id == from {
			start = i + 1
			break
		}
	}
	for k := 0; k < n; k++ {
		id := m.order[(start+k)%n]
		w := m.clients[id]
		if !m.filters.Cycle.Match(w) {
			continue
		}
		if f != nil && !f.Match(w) {
			continue
		}
		return id, true
	}
	return 0, false
}

// Framed reports whether id should be decorated.
func (m *Manager) Framed(id platform.WindowID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.clients[id]
	if !ok {
		return false, ErrUnknownWindow
	}
	return m.filters.Frame.Match(w), nil
}

// Focus gives input focus to id and clears the flag on the previous holder.
func (m *Manager) Focus(id platform.WindowID, time uint32) (client.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.clients[id]
	if !ok {
		return client.NotApplicable, ErrUnknownWindow
	}
	outcome, err := w.GetFocus(time)
	if outcome != client.Applied {
		return outcome, err
	}
	if prev, ok := m.clients[m.focused]; ok && m.focused != id {
		prev.LoseFocus()
	}
	m.focused = id
	return outcome, err
}

// Focused returns the window that last received focus through Focus.
func (m *Manager) Focused() (platform.WindowID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.clients[m.focused]
	return m.focused, ok
}

// MoveResize moves and resizes id, deferring the change while it is
// iconified when delayed is set.
func (m *Manager) MoveResize(id platform.WindowID, r platform.Rect, delayed bool) (client.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.clients[id]
	if !ok {
		return client.NotApplicable, ErrUnknownWindow
	}
	return w.MoveResize(r.X, r.Y, r.Width, r.Height, delayed)
}

// KeepOnScreen clamps r into the usable area of id without changing it.
func (m *Manager) KeepOnScreen(id platform.WindowID, r platform.Rect) (platform.Rect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.clients[id]
	if !ok {
		return platform.Rect{}, ErrUnknownWindow
	}
	x, y, width, height := w.KeepOnScreen(r.X, r.Y, r.Width, r.Height)
	return platform.Rect{X: x, Y: y, Width: width, Height: height}, nil
}

// Reconcile withdraws every window whose handle went bad and returns their
// ids.
func (m *Manager) Reconcile() []platform.WindowID {
	m.mu.Lock()
	defer m.mu.Unlock()

	var gone []platform.WindowID
	for _, id := range append([]platform.WindowID(nil), m.order...) {
		if !m.clients[id].IsValid() {
			m.withdrawLocked(id)
			gone = append(gone, id)
		}
	}
	if len(gone) > 0 {
		m.logger.Info("stale windows withdrawn", "count", len(gone))
	}
	return gone
}
