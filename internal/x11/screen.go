package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Area is a rectangle in root coordinates.
type Area struct {
	X      int
	Y      int
	Width  int
	Height int
}

// ScreenAreas returns the full pixel extent of the root window and the work
// area, which excludes space reserved by docks and panels.
func (c *Connection) ScreenAreas() (full, work Area, err error) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return Area{}, Area{}, fmt.Errorf("failed to query root geometry: %w", err)
	}
	full = Area{Width: int(rootGeom.Width), Height: int(rootGeom.Height)}

	if wa, ok := c.ewmhWorkArea(full); ok {
		return full, wa, nil
	}
	if wa, ok := c.strutWorkArea(full); ok {
		return full, wa, nil
	}
	return full, full, nil
}

// ewmhWorkArea reads _NET_WORKAREA for the current desktop, clipped to full.
func (c *Connection) ewmhWorkArea(full Area) (Area, bool) {
	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return Area{}, false
	}

	desktopIndex := 0
	if current, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
		if int(current) >= 0 && int(current) < len(workArea) {
			desktopIndex = int(current)
		}
	}

	wa := workArea[desktopIndex]
	return intersect(full, Area{X: int(wa.X), Y: int(wa.Y), Width: int(wa.Width), Height: int(wa.Height)})
}

// strutWorkArea derives the work area from dock struts, for window managers
// that do not publish _NET_WORKAREA.
func (c *Connection) strutWorkArea(full Area) (Area, bool) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return Area{}, false
	}

	var left, right, top, bottom int
	for _, windowID := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
		if err != nil || !hasType(types, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			left = max(left, int(sp.Left))
			right = max(right, int(sp.Right))
			top = max(top, int(sp.Top))
			bottom = max(bottom, int(sp.Bottom))
			continue
		}
		// Some docks only set _NET_WM_STRUT.
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			left = max(left, int(s.Left))
			right = max(right, int(s.Right))
			top = max(top, int(s.Top))
			bottom = max(bottom, int(s.Bottom))
		}
	}

	if left == 0 && right == 0 && top == 0 && bottom == 0 {
		return Area{}, false
	}

	return Area{
		X:      full.X + left,
		Y:      full.Y + top,
		Width:  max(full.Width-left-right, 1),
		Height: max(full.Height-top-bottom, 1),
	}, true
}

func hasType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

func intersect(a, b Area) (Area, bool) {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.Width, b.X+b.Width)
	y2 := min(a.Y+a.Height, b.Y+b.Height)
	if x2 <= x1 || y2 <= y1 {
		return Area{}, false
	}
	return Area{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}, true
}
