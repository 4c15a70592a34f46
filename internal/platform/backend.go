package platform

import "errors"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// ErrBadHandle reports that the underlying window no longer exists.
var ErrBadHandle = errors.New("bad window handle")

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Geometry is the geometry of a window as reported by the transport.
type Geometry struct {
	X           int
	Y           int
	Width       int
	Height      int
	BorderWidth int
}

// Attributes holds the subset of window attributes the core needs.
type Attributes struct {
	Mapped           bool
	OverrideRedirect bool
}

// Properties holds the classification metadata of a top-level window.
// A nil resource string means the window did not set it.
type Properties struct {
	ResourceName  *string
	ResourceClass *string
	Title         string
}

// Pointer is the result of a pointer query relative to a window.
type Pointer struct {
	SameScreen bool
	X          int
	Y          int
}

// ConfigMask selects which fields of a ConfigureRequest are applied.
type ConfigMask uint16

const (
	ConfigX ConfigMask = 1 << iota
	ConfigY
	ConfigWidth
	ConfigHeight
	ConfigBorderWidth
	ConfigStackMode
)

// StackMode is the restacking operation of a ConfigureRequest.
type StackMode int

const (
	StackAbove StackMode = iota
	StackBelow
	StackOpposite
)

// ConfigureRequest is a partial geometry/stacking change. Only the fields
// named in Mask are sent.
type ConfigureRequest struct {
	Mask        ConfigMask
	X           int
	Y           int
	Width       int
	Height      int
	BorderWidth int
	Stack       StackMode
}

// Has reports whether the request carries field m.
func (r ConfigureRequest) Has(m ConfigMask) bool {
	return r.Mask&m != 0
}

// Transport abstracts the windowing-protocol requests made on behalf of a
// single managed window. Implementations return ErrBadHandle (possibly
// wrapped) when the window is gone.
type Transport interface {
	QueryAttributes(id WindowID) (Attributes, error)
	QueryGeometry(id WindowID) (Geometry, error)
	QueryProperties(id WindowID) (Properties, error)
	QueryPointer(id WindowID) (Pointer, error)
	Configure(id WindowID, req ConfigureRequest) error
	SetInputFocus(id WindowID, time uint32) error
	Map(id WindowID) error
	Unmap(id WindowID) error
	Destroy(id WindowID) error
}

// Window is anything filters can classify.
type Window interface {
	IsMapped() bool
	ResourceName() (string, bool)
	ResourceClass() (string, bool)
	Title() string
}

// ManagedWindow is the capability set of a window under management. Filters
// use it to tell managed clients apart from other classifiable objects.
type ManagedWindow interface {
	Window
	ID() WindowID
	Withdrawn() bool
	Geometry() Geometry
}
