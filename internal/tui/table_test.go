package tui

import (
	"strings"
	"testing"

	"github.com/1broseidon/wogix/internal/wm"
)

func TestRow(t *testing.T) {
	tests := []struct {
		name string
		in   wm.Snapshot
		want []string
	}{
		{
			name: "full",
			in: wm.Snapshot{
				ID: 0x1c00003, ResourceName: str("xterm"), ResourceClass: str("XTerm"),
				Title: "vim", Mapped: true, Focused: true, Framed: true,
				X: 10, Y: 20, Width: 640, Height: 480,
			},
			want: []string{"0x1c00003", "xterm", "XTerm", "vim", "mapped,focused,framed", "640x480+10+20"},
		},
		{
			name: "no class hint",
			in:   wm.Snapshot{ID: 7, DelayedResize: true, Width: 1, Height: 1, X: -5},
			want: []string{"0x7", "-", "-", "", "iconified,resize-pending", "1x1+-5+0"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Row(tt.in)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("Row() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderTable(t *testing.T) {
	long := strings.Repeat("x", 60)
	out := RenderTable([]wm.Snapshot{
		{ID: 0x400001, ResourceName: str("xterm"), Title: long, Mapped: true},
	}, 0)
	for _, want := range Headers() {
		if !strings.Contains(out, want) {
			t.Errorf("table missing header %q", want)
		}
	}
	if strings.Contains(out, long) {
		t.Error("long title was not truncated")
	}
	if !strings.Contains(out, "0x400001") {
		t.Error("table missing window id")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"abcdef", 4, "abc…"},
		{"äöüß", 3, "äö…"},
		{"ab", 1, "a"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
