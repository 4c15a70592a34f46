package x11

import (
	"errors"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// IsBadHandle reports whether err is the server telling us the window (or
// drawable) no longer exists.
func IsBadHandle(err error) bool {
	var winErr xproto.WindowError
	if errors.As(err, &winErr) {
		return true
	}
	var drawErr xproto.DrawableError
	return errors.As(err, &drawErr)
}

// WindowAttributes returns the map state and override-redirect flag.
func (c *Connection) WindowAttributes(windowID xproto.Window) (mapped, overrideRedirect bool, err error) {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false, false, err
	}
	return attrs.MapState != xproto.MapStateUnmapped, attrs.OverrideRedirect, nil
}

// WindowGeometry returns the geometry of a window relative to its parent.
func (c *Connection) WindowGeometry(windowID xproto.Window) (*xproto.GetGeometryReply, error) {
	return xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
}

// WindowClass returns the WM_CLASS instance and class. Either is nil when
// the window did not set WM_CLASS.
func (c *Connection) WindowClass(windowID xproto.Window) (instance, class *string) {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil || wmClass == nil {
		return nil, nil
	}
	inst := wmClass.Instance
	cls := wmClass.Class
	return &inst, &cls
}

// WindowTitle prefers _NET_WM_NAME and falls back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// ConfigureWindow sends a checked ConfigureWindow request. values must be
// ordered by mask bit, as the protocol requires.
func (c *Connection) ConfigureWindow(windowID xproto.Window, mask uint16, values []uint32) error {
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID, mask, values).Check()
}

// QueryPointer returns the pointer position relative to windowID.
func (c *Connection) QueryPointer(windowID xproto.Window) (*xproto.QueryPointerReply, error) {
	return xproto.QueryPointer(c.XUtil.Conn(), windowID).Reply()
}

// FocusWindow gives windowID the input focus, reverting to the pointer root.
func (c *Connection) FocusWindow(windowID xproto.Window, time uint32) error {
	return xproto.SetInputFocusChecked(
		c.XUtil.Conn(),
		xproto.InputFocusPointerRoot,
		windowID,
		xproto.Timestamp(time),
	).Check()
}

// MapWindow maps windowID.
func (c *Connection) MapWindow(windowID xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// UnmapWindow unmaps windowID.
func (c *Connection) UnmapWindow(windowID xproto.Window) error {
	return xproto.UnmapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// DestroyWindow destroys windowID.
func (c *Connection) DestroyWindow(windowID xproto.Window) error {
	return xproto.DestroyWindowChecked(c.XUtil.Conn(), windowID).Check()
}
