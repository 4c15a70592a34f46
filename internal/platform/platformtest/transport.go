// Package platformtest provides an in-memory platform.Transport for tests.
package platformtest

import (
	"fmt"
	"sync"

	"github.com/1broseidon/wogix/internal/platform"
)

// Window is the server-side state of a fake window.
type Window struct {
	Attributes platform.Attributes
	Geometry   platform.Geometry
	Properties platform.Properties
	Pointer    platform.Pointer
}

// Call records one request made through the transport.
type Call struct {
	Op     string
	ID     platform.WindowID
	Config platform.ConfigureRequest
	Time   uint32
}

// Transport is a fake platform.Transport backed by a map of windows.
// Requests on unknown ids fail with platform.ErrBadHandle.
type Transport struct {
	mu      sync.Mutex
	windows map[platform.WindowID]*Window
	calls   []Call

	// Err, when set, is returned by every mutating request.
	Err error
}

var _ platform.Transport = (*Transport)(nil)

// New returns an empty fake transport.
func New() *Transport {
	return &Transport{windows: make(map[platform.WindowID]*Window)}
}

// Add registers a window.
func (t *Transport) Add(id platform.WindowID, w Window) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := w
	t.windows[id] = &cp
}

// Remove makes id a bad handle.
func (t *Transport) Remove(id platform.WindowID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.windows, id)
}

// SetTitle changes the title property of id.
func (t *Transport) SetTitle(id platform.WindowID, title string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if w, ok := t.windows[id]; ok {
		w.Properties.Title = title
	}
}

// State returns a copy of the server-side state of id.
func (t *Transport) State(id platform.WindowID) (Window, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, ok := t.windows[id]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

// Calls returns the recorded mutating requests.
func (t *Transport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Call(nil), t.calls...)
}

// CallsFor returns the recorded requests named op.
func (t *Transport) CallsFor(op string) []Call {
	var out []Call
	for _, c := range t.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls.
func (t *Transport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = nil
}

func (t *Transport) lookup(id platform.WindowID) (*Window, error) {
	w, ok := t.windows[id]
	if !ok {
		return nil, fmt.Errorf("window 0x%x: %w", uint32(id), platform.ErrBadHandle)
	}
	return w, nil
}

func (t *Transport) QueryAttributes(id platform.WindowID) (platform.Attributes, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, err := t.lookup(id)
	if err != nil {
		return platform.Attributes{}, err
	}
	return w.Attributes, nil
}

func (t *Transport) QueryGeometry(id platform.WindowID) (platform.Geometry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, err := t.lookup(id)
	if err != nil {
		return platform.Geometry{}, err
	}
	return w.Geometry, nil
}

func (t *Transport) QueryProperties(id platform.WindowID) (platform.Properties, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, err := t.lookup(id)
	if err != nil {
		return platform.Properties{}, err
	}
	return w.Properties, nil
}

func (t *Transport) QueryPointer(id platform.WindowID) (platform.Pointer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, err := t.lookup(id)
	if err != nil {
		return platform.Pointer{}, err
	}
	return w.Pointer, nil
}

func (t *Transport) Configure(id platform.WindowID, req platform.ConfigureRequest) error {
	return t.mutate(Call{Op: "configure", ID: id, Config: req}, func(w *Window) {
		if req.Has(platform.ConfigX) {
			w.Geometry.X = req.X
		}
		if req.Has(platform.ConfigY) {
			w.Geometry.Y = req.Y
		}
		if req.Has(platform.ConfigWidth) {
			w.Geometry.Width = req.Width
		}
		if req.Has(platform.ConfigHeight) {
			w.Geometry.Height = req.Height
		}
		if req.Has(platform.ConfigBorderWidth) {
			w.Geometry.BorderWidth = req.BorderWidth
		}
	})
}

func (t *Transport) SetInputFocus(id platform.WindowID, time uint32) error {
	return t.mutate(Call{Op: "focus", ID: id, Time: time}, nil)
}

func (t *Transport) Map(id platform.WindowID) error {
	return t.mutate(Call{Op: "map", ID: id}, func(w *Window) { w.Attributes.Mapped = true })
}

func (t *Transport) Unmap(id platform.WindowID) error {
	return t.mutate(Call{Op: "unmap", ID: id}, func(w *Window) { w.Attributes.Mapped = false })
}

func (t *Transport) Destroy(id platform.WindowID) error {
	err := t.mutate(Call{Op: "destroy", ID: id}, nil)
	if err == nil {
		t.Remove(id)
	}
	return err
}

func (t *Transport) mutate(call Call, apply func(*Window)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, call)
	if t.Err != nil {
		return t.Err
	}
	w, err := t.lookup(call.ID)
	if err != nil {
		return err
	}
	if apply != nil {
		apply(w)
	}
	return nil
}
