// Package client models one managed top-level window: its lifecycle, its
// geometry as last requested from the transport, and its classification
// metadata.
//
// A Window is live until Withdraw is called, after which every operation
// is a no-op reporting NotApplicable. A Window is owned by the single event
// loop goroutine and is not safe for concurrent use.
package client

import (
	"errors"
	"fmt"
	"image"

	"github.com/1broseidon/wogix/internal/platform"
	"github.com/BurntSushi/xgb"
)

// Outcome reports what an operation did.
type Outcome int

const (
	// NotApplicable means nothing happened: the window is withdrawn, or the
	// transport request failed.
	NotApplicable Outcome = iota
	// Applied means the request was issued to the transport.
	Applied
	// Deferred means the change was recorded locally and will be issued when
	// the window is remapped.
	Deferred
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Deferred:
		return "deferred"
	default:
		return "not-applicable"
	}
}

// Window is a managed top-level window.
type Window struct {
	id        platform.WindowID
	transport platform.Transport
	screen    *Screen
	router    Router

	withdrawn bool
	mapped    bool
	focused   bool

	x, y          int
	width, height int
	borderWidth   int

	delayedResize bool

	resourceName  *string
	resourceClass *string
	title         string
}

var _ platform.ManagedWindow = (*Window)(nil)

// New queries the transport for the initial map state, geometry and
// properties of id and returns a live Window. A nil router drops events.
func New(t platform.Transport, screen *Screen, id platform.WindowID, router Router) (*Window, error) {
	if t == nil {
		return nil, fmt.Errorf("client 0x%x: nil transport", uint32(id))
	}
	if screen == nil {
		return nil, fmt.Errorf("client 0x%x: nil screen", uint32(id))
	}

	attrs, err := t.QueryAttributes(id)
	if err != nil {
		return nil, fmt.Errorf("client 0x%x: %w", uint32(id), err)
	}
	geom, err := t.QueryGeometry(id)
	if err != nil {
		return nil, fmt.Errorf("client 0x%x: %w", uint32(id), err)
	}
	props, err := t.QueryProperties(id)
	if err != nil {
		return nil, fmt.Errorf("client 0x%x: %w", uint32(id), err)
	}

	if router == nil {
		router = nopRouter{}
	}

	return &Window{
		id:            id,
		transport:     t,
		screen:        screen,
		router:        router,
		mapped:        attrs.Mapped,
		x:             geom.X,
		y:             geom.Y,
		width:         geom.Width,
		height:        geom.Height,
		borderWidth:   geom.BorderWidth,
		resourceName:  copyString(props.ResourceName),
		resourceClass: copyString(props.ResourceClass),
		title:         props.Title,
	}, nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// ID returns the transport handle.
func (w *Window) ID() platform.WindowID { return w.id }

// Screen returns the screen the window lives on.
func (w *Window) Screen() *Screen { return w.screen }

// Withdrawn reports whether the window has left management.
func (w *Window) Withdrawn() bool { return w.withdrawn }

// IsMapped reports whether the window is displayed.
func (w *Window) IsMapped() bool { return w.mapped }

// Focused reports the advisory focus flag.
func (w *Window) Focused() bool { return w.focused }

// DelayedResizePending reports whether a move/resize is waiting for the
// window to be remapped.
func (w *Window) DelayedResizePending() bool { return w.delayedResize }

// ResourceName returns the WM_CLASS instance, if set.
func (w *Window) ResourceName() (string, bool) {
	if w.resourceName == nil {
		return "", false
	}
	return *w.resourceName, true
}

// ResourceClass returns the WM_CLASS class, if set.
func (w *Window) ResourceClass() (string, bool) {
	if w.resourceClass == nil {
		return "", false
	}
	return *w.resourceClass, true
}

// Title returns the current title.
func (w *Window) Title() string { return w.title }

// SetTitle records a title change notification.
func (w *Window) SetTitle(title string) {
	if w.withdrawn {
		return
	}
	w.title = title
}

// SetRouter replaces the event routing of a live window.
func (w *Window) SetRouter(r Router) {
	if w.withdrawn {
		return
	}
	if r == nil {
		r = nopRouter{}
	}
	w.router = r
}

// HandleEvent passes ev to the window's router.
func (w *Window) HandleEvent(ev xgb.Event, grabbed bool) {
	w.router.HandleEvent(ev, grabbed)
}

// Withdraw takes the window out of management. It clears the mapped flag and
// detaches the router so no further events are delivered. Calling it again
// does nothing.
func (w *Window) Withdraw() {
	if w.withdrawn {
		return
	}
	w.withdrawn = true
	w.mapped = false
	w.focused = false
	w.delayedResize = false

	old := w.router
	w.router = nopRouter{}
	if d, ok := old.(Detacher); ok {
		d.Detach()
	}
}

// IsValid reports whether the underlying window still exists. Only a bad
// handle counts as invalid; other transport errors are inconclusive.
func (w *Window) IsValid() bool {
	if w.withdrawn {
		return false
	}
	if _, err := w.transport.QueryGeometry(w.id); errors.Is(err, platform.ErrBadHandle) {
		return false
	}
	return true
}

// PointerPosition returns the pointer position relative to the window
// origin. ok is false when the window is withdrawn or the pointer is on
// another screen.
func (w *Window) PointerPosition() (pos image.Point, ok bool, err error) {
	if w.withdrawn {
		return image.Point{}, false, nil
	}
	p, err := w.transport.QueryPointer(w.id)
	if err != nil {
		return image.Point{}, false, err
	}
	if !p.SameScreen {
		return image.Point{}, false, nil
	}
	return image.Pt(p.X, p.Y), true, nil
}

// GetFocus marks the window focused and asks the transport for input focus.
func (w *Window) GetFocus(time uint32) (Outcome, error) {
	if w.withdrawn {
		return NotApplicable, nil
	}
	w.focused = true
	if err := w.transport.SetInputFocus(w.id, time); err != nil {
		return NotApplicable, err
	}
	return Applied, nil
}

// LoseFocus clears the focus flag.
func (w *Window) LoseFocus() {
	w.focused = false
}

// Map asks the transport to map the window.
func (w *Window) Map() (Outcome, error) {
	if w.withdrawn {
		return NotApplicable, nil
	}
	if err := w.transport.Map(w.id); err != nil {
		return NotApplicable, err
	}
	return Applied, nil
}

// Unmap asks the transport to unmap the window.
func (w *Window) Unmap() (Outcome, error) {
	if w.withdrawn {
		return NotApplicable, nil
	}
	if err := w.transport.Unmap(w.id); err != nil {
		return NotApplicable, err
	}
	return Applied, nil
}

// Destroy asks the transport to destroy the window. The caller withdraws it
// once the destruction is observed.
func (w *Window) Destroy() (Outcome, error) {
	if w.withdrawn {
		return NotApplicable, nil
	}
	if err := w.transport.Destroy(w.id); err != nil {
		return NotApplicable, err
	}
	return Applied, nil
}

// Remapped records that the window became visible. A move/resize deferred
// while it was iconified is issued now.
func (w *Window) Remapped() (Outcome, error) {
	if w.withdrawn {
		return NotApplicable, nil
	}
	w.mapped = true
	if !w.delayedResize {
		return Applied, nil
	}

	w.delayedResize = false
	err := w.transport.Configure(w.id, platform.ConfigureRequest{
		Mask:   platform.ConfigX | platform.ConfigY | platform.ConfigWidth | platform.ConfigHeight,
		X:      w.x,
		Y:      w.y,
		Width:  w.width,
		Height: w.height,
	})
	if err != nil {
		return NotApplicable, err
	}
	return Applied, nil
}

// Unmapped records that the window is no longer visible.
func (w *Window) Unmapped() {
	if w.withdrawn {
		return
	}
	w.mapped = false
}

func (w *Window) String() string {
	name, _ := w.ResourceName()
	class, _ := w.ResourceClass()
	return fmt.Sprintf("0x%x %s.%s %q", uint32(w.id), name, class, w.title)
}
