package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/1broseidon/wogix/internal/cfilter"
	"github.com/1broseidon/wogix/internal/wm"
	"gopkg.in/yaml.v3"
)

// DefaultReconcileInterval is how often the daemon checks that managed
// windows still exist.
const DefaultReconcileInterval = 10 * time.Second

// ValidationError names the config key that failed validation.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// FilterSpec is a window filter written in the filter grammar. It keeps
// the YAML it was read from so the config can be printed back.
type FilterSpec struct {
	Filter cfilter.Filter
	node   *yaml.Node
}

// ParseFilterSpec reads a filter from its YAML source.
func ParseFilterSpec(src string) (FilterSpec, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		return FilterSpec{}, fmt.Errorf("%w: %v", cfilter.ErrInvalidFilter, err)
	}
	var spec FilterSpec
	if err := spec.UnmarshalYAML(&doc); err != nil {
		return FilterSpec{}, err
	}
	return spec, nil
}

func mustFilterSpec(src string) FilterSpec {
	spec, err := ParseFilterSpec(src)
	if err != nil {
		panic(err)
	}
	return spec
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *FilterSpec) UnmarshalYAML(n *yaml.Node) error {
	f, err := cfilter.FromNode(n)
	if err != nil {
		return err
	}
	if n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		n = n.Content[0]
	}
	s.Filter = f
	s.node = n
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (s FilterSpec) MarshalYAML() (any, error) {
	if s.node != nil {
		return s.node, nil
	}
	if s.Filter == nil {
		return nil, nil
	}
	return s.Filter.String(), nil
}

func (s FilterSpec) String() string {
	if s.Filter == nil {
		return "<unset>"
	}
	return s.Filter.String()
}

// Filters holds the window selection policies.
type Filters struct {
	// FullScreenWindows may cover the whole screen, docks included.
	FullScreenWindows FilterSpec `yaml:"full_screen_windows"`
	// FrameWindows get decorated.
	FrameWindows FilterSpec `yaml:"frame_windows"`
	// CycleWindows take part in focus cycling.
	CycleWindows FilterSpec `yaml:"cycle_windows"`
	// StartIconified are unmapped as soon as they are adopted.
	StartIconified FilterSpec `yaml:"start_iconified"`
}

// Manager converts the policies for the window manager.
func (f Filters) Manager() wm.Filters {
	return wm.Filters{
		FullScreen:     f.FullScreenWindows.Filter,
		Frame:          f.FrameWindows.Filter,
		Cycle:          f.CycleWindows.Filter,
		StartIconified: f.StartIconified.Filter,
	}
}

type Config struct {
	LogLevel          string        `yaml:"log_level"`
	ReconcileInterval time.Duration `yaml:"reconcile_interval"`
	Filters           Filters       `yaml:"filters"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:          "info",
		ReconcileInterval: DefaultReconcileInterval,
		Filters: Filters{
			FullScreenWindows: mustFilterSpec("false"),
			FrameWindows:      mustFilterSpec("true"),
			CycleWindows:      mustFilterSpec("true"),
			StartIconified:    mustFilterSpec("false"),
		},
	}
}

// SlogLevel maps log_level to a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if c.ReconcileInterval < 0 {
		return &ValidationError{Path: "reconcile_interval", Err: fmt.Errorf("reconcile_interval must be >= 0")}
	}
	if c.ReconcileInterval > 0 && c.ReconcileInterval < 100*time.Millisecond {
		return &ValidationError{Path: "reconcile_interval", Err: fmt.Errorf("reconcile_interval must be at least 100ms (or 0 to disable)")}
	}

	filters := []struct {
		path string
		spec FilterSpec
	}{
		{"filters.full_screen_windows", c.Filters.FullScreenWindows},
		{"filters.frame_windows", c.Filters.FrameWindows},
		{"filters.cycle_windows", c.Filters.CycleWindows},
		{"filters.start_iconified", c.Filters.StartIconified},
	}
	for _, f := range filters {
		if f.spec.Filter == nil {
			return &ValidationError{Path: f.path, Err: fmt.Errorf("filter must not be empty")}
		}
	}
	return nil
}
