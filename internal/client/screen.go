package client

import (
	"github.com/1broseidon/wogix/internal/cfilter"
	"github.com/1broseidon/wogix/internal/platform"
)

// Screen describes where windows may be placed.
type Screen struct {
	// Full is the whole pixel extent of the screen.
	Full platform.Rect
	// Work excludes space reserved by docks and panels.
	Work platform.Rect
	// FullScreenWindows selects windows that may use Full instead of Work.
	FullScreenWindows cfilter.Filter
}

// NewScreen returns a screen on which no window is full-screen eligible.
func NewScreen(full, work platform.Rect) *Screen {
	return &Screen{
		Full:              full,
		Work:              work,
		FullScreenWindows: cfilter.False,
	}
}

// UsableArea returns the rectangle w must be kept within.
func (s *Screen) UsableArea(w platform.Window) platform.Rect {
	if s.FullScreenWindows != nil && s.FullScreenWindows.Match(w) {
		return s.Full
	}
	return s.Work
}
