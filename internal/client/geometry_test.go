package client

import (
	"errors"
	"testing"

	"github.com/1broseidon/wogix/internal/cfilter"
	"github.com/1broseidon/wogix/internal/platform"
)

func TestConfigurePartial(t *testing.T) {
	geom := platform.Geometry{X: 1, Y: 2, Width: 3, Height: 4, BorderWidth: 5}
	w, tr := newTestWindow(t, true, geom)

	outcome, err := w.Configure(platform.ConfigureRequest{
		Mask:   platform.ConfigY | platform.ConfigHeight,
		Y:      20,
		Height: 40,
	})
	if err != nil || outcome != Applied {
		t.Fatalf("Configure() = %v, %v", outcome, err)
	}

	want := platform.Geometry{X: 1, Y: 20, Width: 3, Height: 40, BorderWidth: 5}
	if got := w.Geometry(); got != want {
		t.Errorf("Geometry() = %+v, want %+v", got, want)
	}
	if st, _ := tr.State(testID); st.Geometry != want {
		t.Errorf("transport geometry = %+v, want %+v", st.Geometry, want)
	}
}

func TestConfigureFailureKeepsMirror(t *testing.T) {
	geom := platform.Geometry{X: 1, Y: 2, Width: 3, Height: 4}
	w, tr := newTestWindow(t, true, geom)
	tr.Err = errors.New("connection lost")

	outcome, err := w.Move(100, 100)
	if err == nil || outcome != NotApplicable {
		t.Fatalf("Move() = %v, %v; want failure", outcome, err)
	}
	if got := w.Geometry(); got != geom {
		t.Errorf("Geometry() = %+v, want %+v", got, geom)
	}
}

func TestResizeAppliesWhileIconified(t *testing.T) {
	w, tr := newTestWindow(t, false, platform.Geometry{Width: 10, Height: 10})

	outcome, err := w.Resize(300, 200)
	if err != nil || outcome != Applied {
		t.Fatalf("Resize() = %v, %v", outcome, err)
	}
	if len(tr.CallsFor("configure")) != 1 {
		t.Fatal("Resize should reach the transport while iconified")
	}
	if w.DelayedResizePending() {
		t.Error("Resize must not defer")
	}
	g := w.Geometry()
	if g.Width != 300 || g.Height != 200 {
		t.Errorf("size = %dx%d, want 300x200", g.Width, g.Height)
	}
}

func TestMoveAndBorderWidth(t *testing.T) {
	w, tr := newTestWindow(t, true, platform.Geometry{})

	if _, err := w.Move(-5, 7); err != nil {
		t.Fatalf("Move() error: %v", err)
	}
	if _, err := w.SetBorderWidth(3); err != nil {
		t.Fatalf("SetBorderWidth() error: %v", err)
	}
	want := platform.Geometry{X: -5, Y: 7, BorderWidth: 3}
	if got := w.Geometry(); got != want {
		t.Errorf("Geometry() = %+v, want %+v", got, want)
	}
	if n := len(tr.CallsFor("configure")); n != 2 {
		t.Errorf("configure calls = %d, want 2", n)
	}
}

func TestMoveResizeDeferredWhileIconified(t *testing.T) {
	w, tr := newTestWindow(t, false, platform.Geometry{X: 0, Y: 0, Width: 10, Height: 10})

	outcome, err := w.MoveResize(5, 6, 70, 80, true)
	if err != nil || outcome != Deferred {
		t.Fatalf("MoveResize() = %v, %v; want deferred", outcome, err)
	}
	if calls := tr.CallsFor("configure"); len(calls) != 0 {
		t.Fatalf("deferred MoveResize issued %d configure requests", len(calls))
	}
	if !w.DelayedResizePending() {
		t.Fatal("expected delayed resize pending")
	}
	want := platform.Geometry{X: 5, Y: 6, Width: 70, Height: 80}
	if got := w.Geometry(); got != want {
		t.Errorf("Geometry() = %+v, want %+v", got, want)
	}

	outcome, err = w.Remapped()
	if err != nil || outcome != Applied {
		t.Fatalf("Remapped() = %v, %v", outcome, err)
	}
	if w.DelayedResizePending() {
		t.Error("remap should clear the pending resize")
	}
	if !w.IsMapped() {
		t.Error("remap should mark the window mapped")
	}
	calls := tr.CallsFor("configure")
	if len(calls) != 1 {
		t.Fatalf("configure calls after remap = %d, want 1", len(calls))
	}
	if st, _ := tr.State(testID); st.Geometry != want {
		t.Errorf("transport geometry = %+v, want %+v", st.Geometry, want)
	}
}

func TestMoveResizeImmediate(t *testing.T) {
	tests := []struct {
		name    string
		mapped  bool
		delayed bool
	}{
		{"iconified, not delayed", false, false},
		{"mapped, delayed", true, true},
		{"mapped, not delayed", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, tr := newTestWindow(t, tt.mapped, platform.Geometry{})
			outcome, err := w.MoveResize(1, 2, 3, 4, tt.delayed)
			if err != nil || outcome != Applied {
				t.Fatalf("MoveResize() = %v, %v", outcome, err)
			}
			if len(tr.CallsFor("configure")) != 1 {
				t.Fatal("expected one configure request")
			}
			if w.DelayedResizePending() {
				t.Error("expected no pending resize")
			}
		})
	}
}

func TestMoveResizeClearsEarlierDeferral(t *testing.T) {
	w, _ := newTestWindow(t, false, platform.Geometry{})
	if _, err := w.MoveResize(1, 1, 1, 1, true); err != nil {
		t.Fatal(err)
	}
	if _, err := w.MoveResize(2, 2, 2, 2, false); err != nil {
		t.Fatal(err)
	}
	if w.DelayedResizePending() {
		t.Error("an applied MoveResize must clear the pending flag")
	}
}

func TestRemappedWithoutPendingResize(t *testing.T) {
	w, tr := newTestWindow(t, false, platform.Geometry{})
	if _, err := w.Remapped(); err != nil {
		t.Fatal(err)
	}
	if len(tr.CallsFor("configure")) != 0 {
		t.Error("remap without pending resize should not configure")
	}
	w.Unmapped()
	if w.IsMapped() {
		t.Error("Unmapped should clear the mapped flag")
	}
}

func TestRestack(t *testing.T) {
	w, tr := newTestWindow(t, true, platform.Geometry{Width: 5})
	w.Raise()
	w.Lower()
	w.RaiseLower()

	calls := tr.CallsFor("configure")
	want := []platform.StackMode{platform.StackAbove, platform.StackBelow, platform.StackOpposite}
	if len(calls) != len(want) {
		t.Fatalf("configure calls = %d, want %d", len(calls), len(want))
	}
	for i, c := range calls {
		if c.Config.Mask != platform.ConfigStackMode || c.Config.Stack != want[i] {
			t.Errorf("call %d = %+v, want stack mode %v", i, c.Config, want[i])
		}
	}
	if w.Geometry().Width != 5 {
		t.Error("restacking must not touch geometry")
	}
}

func TestEdges(t *testing.T) {
	w, _ := newTestWindow(t, true, platform.Geometry{X: 10, Y: 20, Width: 100, Height: 50, BorderWidth: 2})
	if w.Top() != 20 || w.Left() != 10 {
		t.Errorf("top/left = %d/%d", w.Top(), w.Left())
	}
	if w.Bottom() != 74 {
		t.Errorf("Bottom() = %d, want 74", w.Bottom())
	}
	if w.Right() != 114 {
		t.Errorf("Right() = %d, want 114", w.Right())
	}
}

func TestKeepOnScreen(t *testing.T) {
	tests := []struct {
		name   string
		border int
		in     [4]int
		want   [4]int
	}{
		{"already inside", 0, [4]int{10, 10, 100, 100}, [4]int{10, 10, 100, 100}},
		{"shift from right edge", 2, [4]int{950, 10, 100, 50}, [4]int{896, 10, 100, 50}},
		{"shift from bottom edge", 1, [4]int{0, 790, 100, 50}, [4]int{0, 748, 100, 50}},
		{"too wide", 0, [4]int{300, 0, 2000, 100}, [4]int{0, 0, 1000, 100}},
		{"too wide negative x", 0, [4]int{-300, 0, 2000, 100}, [4]int{0, 0, 1000, 100}},
		{"too tall with border", 5, [4]int{0, 100, 100, 900}, [4]int{0, 0, 100, 790}},
		{"negative size", 0, [4]int{-10, -20, -5, -6}, [4]int{0, 0, 0, 0}},
		{"left of screen", 0, [4]int{-50, 10, 100, 100}, [4]int{0, 10, 100, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := newTestWindow(t, true, platform.Geometry{BorderWidth: tt.border})
			x, y, width, height := w.KeepOnScreen(tt.in[0], tt.in[1], tt.in[2], tt.in[3])
			got := [4]int{x, y, width, height}
			if got != tt.want {
				t.Errorf("KeepOnScreen(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if w.Geometry().X != 0 || w.Geometry().Width != 0 {
				t.Error("KeepOnScreen must not modify the window")
			}
		})
	}
}

func TestKeepOnScreenUsesWorkArea(t *testing.T) {
	w, _ := newTestWindow(t, true, platform.Geometry{})
	w.screen = NewScreen(
		platform.Rect{Width: 1000, Height: 800},
		platform.Rect{X: 0, Y: 30, Width: 1000, Height: 770},
	)

	_, y, _, height := w.KeepOnScreen(0, 0, 100, 800)
	if y != 30 || height != 770 {
		t.Errorf("y=%d height=%d, want 30/770", y, height)
	}

	w.screen.FullScreenWindows = cfilter.NameIs("XTerm")
	_, y, _, height = w.KeepOnScreen(0, 0, 100, 800)
	if y != 0 || height != 800 {
		t.Errorf("full-screen eligible: y=%d height=%d, want 0/800", y, height)
	}
}

func TestOutcomeString(t *testing.T) {
	if Applied.String() != "applied" || Deferred.String() != "deferred" || NotApplicable.String() != "not-applicable" {
		t.Error("unexpected Outcome strings")
	}
}
