package wm

import (
	"github.com/1broseidon/wogix/internal/cfilter"
	"github.com/1broseidon/wogix/internal/client"
	"github.com/1broseidon/wogix/internal/platform"
)

// Snapshot is a copy of the observable state of one managed window.
type Snapshot struct {
	ID            uint32  `json:"id"`
	ResourceName  *string `json:"resource_name"`
	ResourceClass *string `json:"resource_class"`
	Title         string  `json:"title"`
	Mapped        bool    `json:"mapped"`
	Focused       bool    `json:"focused"`
	Framed        bool    `json:"framed"`
	DelayedResize bool    `json:"delayed_resize"`
	X             int     `json:"x"`
	Y             int     `json:"y"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	BorderWidth   int     `json:"border_width"`
}

// Snapshot returns the state of id.
func (m *Manager) Snapshot(id platform.WindowID) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.clients[id]
	if !ok {
		return Snapshot{}, false
	}
	return m.snapshotLocked(w), true
}

// Snapshots returns, in adoption order, the state of the windows accepted
// by f. A nil filter accepts every window.
func (m *Manager) Snapshots(f cfilter.Filter) []Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Snapshot, 0, len(m.order))
	for _, id := range m.order {
		w := m.clients[id]
		if f == nil || f.Match(w) {
			out = append(out, m.snapshotLocked(w))
		}
	}
	return out
}

func (m *Manager) snapshotLocked(w *client.Window) Snapshot {
	g := w.Geometry()
	s := Snapshot{
		ID:            uint32(w.ID()),
		Title:         w.Title(),
		Mapped:        w.IsMapped(),
		Focused:       w.Focused(),
		Framed:        m.filters.Frame.Match(w),
		DelayedResize: w.DelayedResizePending(),
		X:             g.X,
		Y:             g.Y,
		Width:         g.Width,
		Height:        g.Height,
		BorderWidth:   g.BorderWidth,
	}
	if name, ok := w.ResourceName(); ok {
		s.ResourceName = &name
	}
	if class, ok := w.ResourceClass(); ok {
		s.ResourceClass = &class
	}
	return s
}
