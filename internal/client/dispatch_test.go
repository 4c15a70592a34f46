package client

import (
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		ev   xgb.Event
		want EventKind
	}{
		{xproto.MapNotifyEvent{}, KindMapNotify},
		{&xproto.MapNotifyEvent{}, KindMapNotify},
		{&xproto.UnmapNotifyEvent{}, KindUnmapNotify},
		{xproto.DestroyNotifyEvent{}, KindDestroyNotify},
		{&xproto.PropertyNotifyEvent{}, KindPropertyNotify},
		{xproto.ConfigureNotifyEvent{}, KindConfigureNotify},
		{xproto.FocusInEvent{}, KindFocusIn},
		{xproto.KeyPressEvent{}, KindOther},
	}
	for _, tt := range tests {
		if got := KindOf(tt.ev); got != tt.want {
			t.Errorf("KindOf(%T) = %d, want %d", tt.ev, got, tt.want)
		}
	}
}

func TestDispatcherRoutesByKind(t *testing.T) {
	d := NewDispatcher()
	var mapped, unmapped int
	var sawGrab bool
	d.On(KindMapNotify, func(ev xgb.Event, grabbed bool) {
		mapped++
		sawGrab = grabbed
	})
	d.On(KindUnmapNotify, func(xgb.Event, bool) { unmapped++ })

	d.HandleEvent(&xproto.MapNotifyEvent{}, true)
	d.HandleEvent(xproto.KeyPressEvent{}, false)

	if mapped != 1 || unmapped != 0 {
		t.Errorf("mapped=%d unmapped=%d, want 1/0", mapped, unmapped)
	}
	if !sawGrab {
		t.Error("grabbed flag not passed through")
	}
}

func TestDispatcherDetach(t *testing.T) {
	d := NewDispatcher()
	calls, detaches := 0, 0
	d.On(KindMapNotify, func(xgb.Event, bool) { calls++ })
	d.OnDetach(func() { detaches++ })

	d.Detach()
	d.Detach()
	d.HandleEvent(xproto.MapNotifyEvent{}, false)

	if detaches != 1 {
		t.Errorf("detach hooks ran %d times, want 1", detaches)
	}
	if calls != 0 {
		t.Errorf("handler ran %d times after detach", calls)
	}
}
