package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/wogix/internal/cfilter"
	"gopkg.in/yaml.v3"
)

type namedWindow struct {
	name   string
	title  string
	mapped bool
}

func (w namedWindow) IsMapped() bool                { return w.mapped }
func (w namedWindow) ResourceName() (string, bool)  { return w.name, true }
func (w namedWindow) ResourceClass() (string, bool) { return w.name, true }
func (w namedWindow) Title() string                 { return w.title }

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.ReconcileInterval != DefaultReconcileInterval {
		t.Fatalf("reconcile_interval = %v", cfg.ReconcileInterval)
	}
	w := namedWindow{name: "xterm", mapped: true}
	if !cfg.Filters.FrameWindows.Filter.Match(w) || cfg.Filters.StartIconified.Filter.Match(w) {
		t.Fatal("unexpected default filter results")
	}
}

func TestLoadFromPathMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log_level = %q, want info", cfg.LogLevel)
	}
}

func TestLoadFromPathEmptyFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, "# empty\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Filters.CycleWindows.Filter != cfilter.True {
		t.Fatalf("cycle_windows = %v, want true", cfg.Filters.CycleWindows)
	}
}

func TestLoadFromPathFilters(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"log_level: debug",
		"reconcile_interval: 2s",
		"filters:",
		"  start_iconified:",
		"    or:",
		"      - name: XClock",
		"      - glob_title: \"*Picture-in-Picture*\"",
		"  frame_windows:",
		"    not: {name: mpv}",
		"",
	}, "\n"))

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want debug", cfg.SlogLevel())
	}
	if cfg.ReconcileInterval != 2*time.Second {
		t.Errorf("reconcile_interval = %v, want 2s", cfg.ReconcileInterval)
	}

	f := cfg.Filters.Manager()
	if !f.StartIconified.Match(namedWindow{name: "XClock"}) {
		t.Error("start_iconified should match XClock")
	}
	if !f.StartIconified.Match(namedWindow{name: "firefox", title: "Picture-in-Picture"}) {
		t.Error("start_iconified should match the PiP title")
	}
	if f.Frame.Match(namedWindow{name: "mpv"}) {
		t.Error("frame_windows should exclude mpv")
	}
	if f.Cycle != cfilter.True {
		t.Error("unset cycle_windows should keep the default")
	}
}

func TestLoadFromPathErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		is      error
	}{
		{"unknown key", "hotkey: Mod4-t\n", "hotkey", nil},
		{"bad log level", "log_level: loud\n", "log_level", nil},
		{"negative interval", "reconcile_interval: -1s\n", "reconcile_interval", nil},
		{"tiny interval", "reconcile_interval: 1ms\n", "reconcile_interval", nil},
		{"bad regex", "filters:\n  cycle_windows: {re_name: \"(\"}\n", "", cfilter.ErrInvalidPattern},
		{"unknown filter", "filters:\n  cycle_windows: sometimes\n", "", cfilter.ErrInvalidFilter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromPath(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error %v is not %v", err, tt.is)
			}
		})
	}
}

func TestValidationErrorNamesKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Filters.FrameWindows = FilterSpec{}
	err := cfg.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "filters.frame_windows" {
		t.Fatalf("Validate() = %v, want frame_windows error", err)
	}
}

func TestFilterSpecRoundTrip(t *testing.T) {
	path := writeConfig(t, "filters:\n  full_screen_windows:\n    name: mpv\n")
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again, err := LoadFromPath(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("reload printed config: %v\n%s", err, data)
	}
	if got, want := again.Filters.FullScreenWindows.String(), `name("mpv")`; got != want {
		t.Errorf("full_screen_windows = %s, want %s", got, want)
	}
	if again.ReconcileInterval != DefaultReconcileInterval {
		t.Errorf("reconcile_interval = %v after round trip", again.ReconcileInterval)
	}
}

func TestDefaultConfigPathHonoursXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if path != "/tmp/xdg/wogix/config.yaml" {
		t.Fatalf("DefaultConfigPath() = %q", path)
	}
}
