//go:build linux

package wm

import (
	"errors"
	"fmt"

	"github.com/1broseidon/wogix/internal/platform"
	"github.com/1broseidon/wogix/internal/x11"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
)

// x11Watcher connects xevent callbacks for single windows.
type x11Watcher struct {
	conn       *x11.Connection
	titleAtoms map[xproto.Atom]bool
}

func newX11Watcher(conn *x11.Connection) *x11Watcher {
	atoms := make(map[xproto.Atom]bool)
	for _, a := range conn.TitleAtoms() {
		atoms[a] = true
	}
	return &x11Watcher{conn: conn, titleAtoms: atoms}
}

func (w *x11Watcher) Watch(id platform.WindowID, deliver func(xgb.Event)) (func(), error) {
	xu := w.conn.XUtil
	win := xproto.Window(id)
	if err := w.conn.ListenWindow(win); err != nil {
		return nil, err
	}

	xevent.MapNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MapNotifyEvent) {
		deliver(ev.MapNotifyEvent)
	}).Connect(xu, win)
	xevent.UnmapNotifyFun(func(_ *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		deliver(ev.UnmapNotifyEvent)
	}).Connect(xu, win)
	xevent.PropertyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		deliver(ev.PropertyNotifyEvent)
	}).Connect(xu, win)
	xevent.FocusOutFun(func(_ *xgbutil.XUtil, ev xevent.FocusOutEvent) {
		deliver(ev.FocusOutEvent)
	}).Connect(xu, win)
	// Keyed by the destroyed window itself, both for its own StructureNotify
	// and for the root's SubstructureNotify copy.
	xevent.DestroyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		deliver(ev.DestroyNotifyEvent)
	}).Connect(xu, win)

	return func() { xevent.Detach(xu, win) }, nil
}

func (w *x11Watcher) TitleAtom(atom xproto.Atom) bool {
	return w.titleAtoms[atom]
}

// Attach wires m to the X server behind b. It listens for top-level windows
// appearing and disappearing, adopts the windows that already exist and
// keeps the screen area current. Nothing is delivered until the event loop
// of b's connection runs.
func Attach(m *Manager, b *platform.LinuxBackend) error {
	conn := b.Connection()
	if conn == nil {
		return errors.New("wm: backend has no X11 connection")
	}
	xu := conn.XUtil
	root := conn.Root

	if err := conn.SelectRootEvents(); err != nil {
		return err
	}
	m.SetWatcher(newX11Watcher(conn))

	refreshScreen := func() {
		full, work, err := b.Screen()
		if err != nil {
			m.logger.Warn("screen area refresh failed", "error", err)
			return
		}
		m.SetScreenArea(full, work)
		m.logger.Debug("screen area updated", "full", full, "work", work)
	}
	refreshScreen()

	screenAtoms := make(map[xproto.Atom]bool)
	for _, a := range conn.ScreenAtoms() {
		screenAtoms[a] = true
	}

	xevent.MapNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MapNotifyEvent) {
		adoptLogged(m, platform.WindowID(ev.Window))
	}).Connect(xu, root)
	xevent.PropertyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		if screenAtoms[ev.Atom] {
			refreshScreen()
		}
	}).Connect(xu, root)
	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		if ev.Window == root {
			refreshScreen()
		}
	}).Connect(xu, root)

	ids, err := b.TopLevelWindows()
	if err != nil {
		return fmt.Errorf("wm: list existing windows: %w", err)
	}
	for _, id := range ids {
		adoptLogged(m, id)
	}
	m.logger.Info("existing windows adopted", "count", m.Len())
	return nil
}

func adoptLogged(m *Manager, id platform.WindowID) {
	if _, err := m.Adopt(id); err != nil {
		// Windows often vanish between the notification and our queries.
		if errors.Is(err, platform.ErrBadHandle) {
			m.logger.Debug("window gone before adoption", "window_id", fmt.Sprintf("0x%x", uint32(id)))
			return
		}
		m.logger.Warn("adopt failed", "window_id", fmt.Sprintf("0x%x", uint32(id)), "error", err)
	}
}
