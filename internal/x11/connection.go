package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection establishes a connection to the X11 server
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// SelectRootEvents subscribes to structure changes of the root's children,
// which is how new and vanishing top-level windows are observed.
func (c *Connection) SelectRootEvents() error {
	root := xwindow.New(c.XUtil, c.Root)
	if err := root.Listen(xproto.EventMaskSubstructureNotify, xproto.EventMaskStructureNotify, xproto.EventMaskPropertyChange); err != nil {
		return fmt.Errorf("failed to select root events: %w", err)
	}
	return nil
}

// ListenWindow subscribes to the structure, property and focus events of a
// single top-level window.
func (c *Connection) ListenWindow(windowID xproto.Window) error {
	win := xwindow.New(c.XUtil, windowID)
	if err := win.Listen(xproto.EventMaskStructureNotify, xproto.EventMaskPropertyChange, xproto.EventMaskFocusChange); err != nil {
		return fmt.Errorf("failed to select events on 0x%x: %w", uint32(windowID), err)
	}
	return nil
}

// TitleAtoms returns the atoms of the properties a window title is read
// from.
func (c *Connection) TitleAtoms() []xproto.Atom {
	atoms := []xproto.Atom{xproto.AtomWmName}
	if atom, err := xprop.Atm(c.XUtil, "_NET_WM_NAME"); err == nil {
		atoms = append(atoms, atom)
	}
	return atoms
}

// ScreenAtoms returns the root properties whose change moves the work area.
func (c *Connection) ScreenAtoms() []xproto.Atom {
	var atoms []xproto.Atom
	for _, name := range []string{"_NET_WORKAREA", "_NET_CURRENT_DESKTOP"} {
		if atom, err := xprop.Atm(c.XUtil, name); err == nil {
			atoms = append(atoms, atom)
		}
	}
	return atoms
}

// TopLevelWindows lists the direct children of the root window in stacking
// order (bottom first).
func (c *Connection) TopLevelWindows() ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query window tree: %w", err)
	}
	return tree.Children, nil
}

// EventLoop starts the main X11 event loop (blocking)
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Quit stops a running EventLoop.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
