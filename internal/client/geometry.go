package client

import "github.com/1broseidon/wogix/internal/platform"

// Geometry returns the last geometry requested for the window.
func (w *Window) Geometry() platform.Geometry {
	return platform.Geometry{
		X:           w.x,
		Y:           w.y,
		Width:       w.width,
		Height:      w.height,
		BorderWidth: w.borderWidth,
	}
}

// Top returns the y coordinate of the top edge.
func (w *Window) Top() int { return w.y }

// Bottom returns the y coordinate of the bottom edge, border included.
func (w *Window) Bottom() int { return w.y + w.height + 2*w.borderWidth }

// Left returns the x coordinate of the left edge.
func (w *Window) Left() int { return w.x }

// Right returns the x coordinate of the right edge, border included.
func (w *Window) Right() int { return w.x + w.width + 2*w.borderWidth }

// Configure sends the fields selected by req.Mask and, once the transport
// accepts them, mirrors them locally. Unselected fields keep their values.
func (w *Window) Configure(req platform.ConfigureRequest) (Outcome, error) {
	if w.withdrawn {
		return NotApplicable, nil
	}
	if err := w.transport.Configure(w.id, req); err != nil {
		return NotApplicable, err
	}

	if req.Has(platform.ConfigX) {
		w.x = req.X
	}
	if req.Has(platform.ConfigY) {
		w.y = req.Y
	}
	if req.Has(platform.ConfigWidth) {
		w.width = req.Width
	}
	if req.Has(platform.ConfigHeight) {
		w.height = req.Height
	}
	if req.Has(platform.ConfigBorderWidth) {
		w.borderWidth = req.BorderWidth
	}
	return Applied, nil
}

// Resize changes the size immediately, even while the window is iconified.
func (w *Window) Resize(width, height int) (Outcome, error) {
	return w.Configure(platform.ConfigureRequest{
		Mask:   platform.ConfigWidth | platform.ConfigHeight,
		Width:  width,
		Height: height,
	})
}

// Move changes the position immediately.
func (w *Window) Move(x, y int) (Outcome, error) {
	return w.Configure(platform.ConfigureRequest{
		Mask: platform.ConfigX | platform.ConfigY,
		X:    x,
		Y:    y,
	})
}

// SetBorderWidth changes the border width immediately.
func (w *Window) SetBorderWidth(width int) (Outcome, error) {
	return w.Configure(platform.ConfigureRequest{
		Mask:        platform.ConfigBorderWidth,
		BorderWidth: width,
	})
}

// MoveResize changes position and size. If the window is iconified and
// delayed is set, the new geometry is only recorded and issued by Remapped.
func (w *Window) MoveResize(x, y, width, height int, delayed bool) (Outcome, error) {
	if w.withdrawn {
		return NotApplicable, nil
	}

	if !w.mapped && delayed {
		w.x, w.y, w.width, w.height = x, y, width, height
		w.delayedResize = true
		return Deferred, nil
	}

	outcome, err := w.Configure(platform.ConfigureRequest{
		Mask:   platform.ConfigX | platform.ConfigY | platform.ConfigWidth | platform.ConfigHeight,
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	})
	if err != nil {
		return outcome, err
	}
	w.delayedResize = false
	return outcome, nil
}

// Raise puts the window on top of its siblings.
func (w *Window) Raise() (Outcome, error) {
	return w.restack(platform.StackAbove)
}

// Lower puts the window below its siblings.
func (w *Window) Lower() (Outcome, error) {
	return w.restack(platform.StackBelow)
}

// RaiseLower raises the window if it is obscured, otherwise lowers it.
func (w *Window) RaiseLower() (Outcome, error) {
	return w.restack(platform.StackOpposite)
}

func (w *Window) restack(mode platform.StackMode) (Outcome, error) {
	return w.Configure(platform.ConfigureRequest{
		Mask:  platform.ConfigStackMode,
		Stack: mode,
	})
}

// KeepOnScreen adjusts a proposed geometry so that the whole window,
// border included, lies within the usable area of its screen. The window
// itself is not changed.
//
// Sizes are shrunk first, then the window is shifted in from the right and
// bottom edges, and finally the left and top edges are clamped.
func (w *Window) KeepOnScreen(x, y, width, height int) (int, int, int, int) {
	area := w.screen.UsableArea(w)
	border := 2 * w.borderWidth

	width = max(width, 0)
	height = max(height, 0)

	if width+border > area.Width {
		width = max(area.Width-border, 0)
	}
	if height+border > area.Height {
		height = max(area.Height-border, 0)
	}

	if x+width+border > area.X+area.Width {
		x = area.X + area.Width - width - border
	}
	if y+height+border > area.Y+area.Height {
		y = area.Y + area.Height - height - border
	}

	if x < area.X {
		x = area.X
	}
	if y < area.Y {
		y = area.Y
	}

	return x, y, width, height
}
