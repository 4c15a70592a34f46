package client

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// Router receives the events addressed to one window.
type Router interface {
	HandleEvent(ev xgb.Event, grabbed bool)
}

// Detacher is implemented by routers that must release something, such as
// event subscriptions, when their window is withdrawn.
type Detacher interface {
	Detach()
}

// EventKind groups protocol events by type, independent of whether the
// event arrives as a value or a pointer.
type EventKind int

const (
	KindOther EventKind = iota
	KindMapNotify
	KindUnmapNotify
	KindDestroyNotify
	KindConfigureNotify
	KindPropertyNotify
	KindFocusIn
	KindFocusOut
	KindEnterNotify
	KindLeaveNotify
)

// KindOf classifies ev.
func KindOf(ev xgb.Event) EventKind {
	switch ev.(type) {
	case xproto.MapNotifyEvent, *xproto.MapNotifyEvent:
		return KindMapNotify
	case xproto.UnmapNotifyEvent, *xproto.UnmapNotifyEvent:
		return KindUnmapNotify
	case xproto.DestroyNotifyEvent, *xproto.DestroyNotifyEvent:
		return KindDestroyNotify
	case xproto.ConfigureNotifyEvent, *xproto.ConfigureNotifyEvent:
		return KindConfigureNotify
	case xproto.PropertyNotifyEvent, *xproto.PropertyNotifyEvent:
		return KindPropertyNotify
	case xproto.FocusInEvent, *xproto.FocusInEvent:
		return KindFocusIn
	case xproto.FocusOutEvent, *xproto.FocusOutEvent:
		return KindFocusOut
	case xproto.EnterNotifyEvent, *xproto.EnterNotifyEvent:
		return KindEnterNotify
	case xproto.LeaveNotifyEvent, *xproto.LeaveNotifyEvent:
		return KindLeaveNotify
	}
	return KindOther
}

// HandlerFunc handles one event.
type HandlerFunc func(ev xgb.Event, grabbed bool)

// Dispatcher is a Router that calls the handlers registered for the kind of
// each event, in registration order.
type Dispatcher struct {
	handlers map[EventKind][]HandlerFunc
	onDetach []func()
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[EventKind][]HandlerFunc)}
}

// On registers fn for events of kind.
func (d *Dispatcher) On(kind EventKind, fn HandlerFunc) {
	d.handlers[kind] = append(d.handlers[kind], fn)
}

// OnDetach registers fn to run when the dispatcher is detached.
func (d *Dispatcher) OnDetach(fn func()) {
	d.onDetach = append(d.onDetach, fn)
}

// HandleEvent implements Router.
func (d *Dispatcher) HandleEvent(ev xgb.Event, grabbed bool) {
	for _, fn := range d.handlers[KindOf(ev)] {
		fn(ev, grabbed)
	}
}

// Detach drops all handlers and runs the detach hooks once.
func (d *Dispatcher) Detach() {
	hooks := d.onDetach
	d.onDetach = nil
	d.handlers = make(map[EventKind][]HandlerFunc)
	for _, fn := range hooks {
		fn()
	}
}

// nopRouter drops every event. Withdrawn windows route to it.
type nopRouter struct{}

func (nopRouter) HandleEvent(xgb.Event, bool) {}
