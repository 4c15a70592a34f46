//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/wogix/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an existing X11 connection behind the Transport interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Transport = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Connection returns the underlying X11 connection.
func (b *LinuxBackend) Connection() *x11.Connection {
	if b == nil {
		return nil
	}
	return b.conn
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// Screen returns the full extent and the work area of the root window.
func (b *LinuxBackend) Screen() (full, work Rect, err error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, Rect{}, err
	}
	f, w, err := conn.ScreenAreas()
	if err != nil {
		return Rect{}, Rect{}, err
	}
	return rectFromArea(f), rectFromArea(w), nil
}

// TopLevelWindows lists the children of the root window.
func (b *LinuxBackend) TopLevelWindows() ([]WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	children, err := conn.TopLevelWindows()
	if err != nil {
		return nil, err
	}
	ids := make([]WindowID, 0, len(children))
	for _, w := range children {
		ids = append(ids, WindowID(w))
	}
	return ids, nil
}

// QueryAttributes returns the map state of windowID.
func (b *LinuxBackend) QueryAttributes(windowID WindowID) (Attributes, error) {
	conn, err := b.connection()
	if err != nil {
		return Attributes{}, err
	}
	mapped, overrideRedirect, err := conn.WindowAttributes(xproto.Window(windowID))
	if err != nil {
		return Attributes{}, classify(windowID, "get attributes", err)
	}
	return Attributes{Mapped: mapped, OverrideRedirect: overrideRedirect}, nil
}

// QueryGeometry returns the geometry of windowID.
func (b *LinuxBackend) QueryGeometry(windowID WindowID) (Geometry, error) {
	conn, err := b.connection()
	if err != nil {
		return Geometry{}, err
	}
	geom, err := conn.WindowGeometry(xproto.Window(windowID))
	if err != nil {
		return Geometry{}, classify(windowID, "get geometry", err)
	}
	return Geometry{
		X:           int(geom.X),
		Y:           int(geom.Y),
		Width:       int(geom.Width),
		Height:      int(geom.Height),
		BorderWidth: int(geom.BorderWidth),
	}, nil
}

// QueryProperties returns WM_CLASS and the window title.
func (b *LinuxBackend) QueryProperties(windowID WindowID) (Properties, error) {
	conn, err := b.connection()
	if err != nil {
		return Properties{}, err
	}
	name, class := conn.WindowClass(xproto.Window(windowID))
	return Properties{
		ResourceName:  name,
		ResourceClass: class,
		Title:         conn.WindowTitle(xproto.Window(windowID)),
	}, nil
}

// QueryPointer returns the pointer position relative to windowID.
func (b *LinuxBackend) QueryPointer(windowID WindowID) (Pointer, error) {
	conn, err := b.connection()
	if err != nil {
		return Pointer{}, err
	}
	r, err := conn.QueryPointer(xproto.Window(windowID))
	if err != nil {
		return Pointer{}, classify(windowID, "query pointer", err)
	}
	return Pointer{SameScreen: r.SameScreen, X: int(r.WinX), Y: int(r.WinY)}, nil
}

// Configure sends the fields of req selected by its mask.
func (b *LinuxBackend) Configure(windowID WindowID, req ConfigureRequest) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	mask, values := configureValues(req)
	if mask == 0 {
		return nil
	}
	if err := conn.ConfigureWindow(xproto.Window(windowID), mask, values); err != nil {
		return classify(windowID, "configure", err)
	}
	return nil
}

// SetInputFocus gives windowID the input focus.
func (b *LinuxBackend) SetInputFocus(windowID WindowID, time uint32) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if err := conn.FocusWindow(xproto.Window(windowID), time); err != nil {
		return classify(windowID, "set input focus", err)
	}
	return nil
}

// Map maps windowID.
func (b *LinuxBackend) Map(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if err := conn.MapWindow(xproto.Window(windowID)); err != nil {
		return classify(windowID, "map", err)
	}
	return nil
}

// Unmap unmaps windowID.
func (b *LinuxBackend) Unmap(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if err := conn.UnmapWindow(xproto.Window(windowID)); err != nil {
		return classify(windowID, "unmap", err)
	}
	return nil
}

// Destroy destroys windowID.
func (b *LinuxBackend) Destroy(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if err := conn.DestroyWindow(xproto.Window(windowID)); err != nil {
		return classify(windowID, "destroy", err)
	}
	return nil
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

// classify maps BadWindow/BadDrawable onto ErrBadHandle.
func classify(windowID WindowID, op string, err error) error {
	if x11.IsBadHandle(err) {
		return fmt.Errorf("%s 0x%x: %w", op, uint32(windowID), ErrBadHandle)
	}
	return fmt.Errorf("%s 0x%x: %w", op, uint32(windowID), err)
}

var stackModes = map[StackMode]uint32{
	StackAbove:    xproto.StackModeAbove,
	StackBelow:    xproto.StackModeBelow,
	StackOpposite: xproto.StackModeOpposite,
}

// configureValues converts req into a ConfigureWindow mask and value list.
func configureValues(req ConfigureRequest) (uint16, []uint32) {
	var mask uint16
	var values []uint32
	if req.Has(ConfigX) {
		mask |= xproto.ConfigWindowX
		values = append(values, uint32(int32(req.X)))
	}
	if req.Has(ConfigY) {
		mask |= xproto.ConfigWindowY
		values = append(values, uint32(int32(req.Y)))
	}
	if req.Has(ConfigWidth) {
		mask |= xproto.ConfigWindowWidth
		values = append(values, uint32(max(req.Width, 0)))
	}
	if req.Has(ConfigHeight) {
		mask |= xproto.ConfigWindowHeight
		values = append(values, uint32(max(req.Height, 0)))
	}
	if req.Has(ConfigBorderWidth) {
		mask |= xproto.ConfigWindowBorderWidth
		values = append(values, uint32(max(req.BorderWidth, 0)))
	}
	if req.Has(ConfigStackMode) {
		mask |= xproto.ConfigWindowStackMode
		values = append(values, stackModes[req.Stack])
	}
	return mask, values
}

func rectFromArea(a x11.Area) Rect {
	return Rect{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
}
