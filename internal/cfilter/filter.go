// Package cfilter builds client filters: immutable boolean predicates over
// windows, used to decide e.g. which windows get a frame or which windows
// take part in focus cycling.
//
// Leaf filters test window state (mapped/iconified), the WM_CLASS resource
// strings or the title. And, Or and Not compose them and evaluate children
// left to right with short-circuiting. And() with no children is always
// true and Or() with no children is always false.
//
// Filters hold no mutable state and may be shared and evaluated
// concurrently.
package cfilter

import (
	"strings"

	"github.com/1broseidon/wogix/internal/platform"
)

// Filter is a predicate over windows.
type Filter interface {
	Match(w platform.Window) bool
	String() string
}

type constFilter bool

func (f constFilter) Match(platform.Window) bool { return bool(f) }

func (f constFilter) String() string {
	if f {
		return "true"
	}
	return "false"
}

type isClientFilter struct{}

func (isClientFilter) Match(w platform.Window) bool {
	_, ok := w.(platform.ManagedWindow)
	return ok
}

func (isClientFilter) String() string { return "is_client" }

type mappedFilter bool

func (f mappedFilter) Match(w platform.Window) bool {
	return w.IsMapped() == bool(f)
}

func (f mappedFilter) String() string {
	if f {
		return "mapped"
	}
	return "iconified"
}

var (
	// True matches every window.
	True Filter = constFilter(true)
	// False matches no window.
	False Filter = constFilter(false)
	// All is an alias of True.
	All = True
	// None is an alias of False.
	None = False

	// IsClient matches windows that are under management, as opposed to
	// other objects that merely carry window metadata.
	IsClient Filter = isClientFilter{}

	Iconified Filter = mappedFilter(false)
	Mapped    Filter = mappedFilter(true)
)

type andFilter []Filter

// And matches when every filter matches.
func And(filters ...Filter) Filter {
	return andFilter(append([]Filter(nil), filters...))
}

func (f andFilter) Match(w platform.Window) bool {
	for _, child := range f {
		if !child.Match(w) {
			return false
		}
	}
	return true
}

func (f andFilter) String() string { return join("and", f) }

type orFilter []Filter

// Or matches when any filter matches.
func Or(filters ...Filter) Filter {
	return orFilter(append([]Filter(nil), filters...))
}

func (f orFilter) Match(w platform.Window) bool {
	for _, child := range f {
		if child.Match(w) {
			return true
		}
	}
	return false
}

func (f orFilter) String() string { return join("or", f) }

type notFilter struct {
	filter Filter
}

// Not inverts filter.
func Not(filter Filter) Filter {
	return notFilter{filter: filter}
}

func (f notFilter) Match(w platform.Window) bool {
	return !f.filter.Match(w)
}

func (f notFilter) String() string { return "not(" + f.filter.String() + ")" }

type nameFilter struct {
	m Matcher
}

// Name matches when m accepts either the resource name or the resource class.
func Name(m Matcher) Filter {
	return nameFilter{m: m}
}

func (f nameFilter) Match(w platform.Window) bool {
	if f.m.Match(w.ResourceName()) {
		return true
	}
	return f.m.Match(w.ResourceClass())
}

func (f nameFilter) String() string { return "name(" + f.m.String() + ")" }

type titleFilter struct {
	m Matcher
}

// Title matches when m accepts the window title.
func Title(m Matcher) Filter {
	return titleFilter{m: m}
}

func (f titleFilter) Match(w platform.Window) bool {
	return f.m.Match(w.Title(), true)
}

func (f titleFilter) String() string { return "title(" + f.m.String() + ")" }

// NameIs matches an exact resource name or class.
func NameIs(s string) Filter { return Name(Exact(s)) }

// NameRe matches a resource name or class containing expr.
func NameRe(expr string) (Filter, error) {
	m, err := Regex(expr)
	if err != nil {
		return nil, err
	}
	return Name(m), nil
}

// NameGlob matches a resource name or class against a shell pattern.
func NameGlob(pattern string) (Filter, error) {
	m, err := Glob(pattern)
	if err != nil {
		return nil, err
	}
	return Name(m), nil
}

// TitleIs matches an exact title.
func TitleIs(s string) Filter { return Title(Exact(s)) }

// TitleRe matches a title containing expr.
func TitleRe(expr string) (Filter, error) {
	m, err := Regex(expr)
	if err != nil {
		return nil, err
	}
	return Title(m), nil
}

// TitleGlob matches a title against a shell pattern.
func TitleGlob(pattern string) (Filter, error) {
	m, err := Glob(pattern)
	if err != nil {
		return nil, err
	}
	return Title(m), nil
}

func join(op string, filters []Filter) string {
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		parts = append(parts, f.String())
	}
	return op + "(" + strings.Join(parts, ", ") + ")"
}
