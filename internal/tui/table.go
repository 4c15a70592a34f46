package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/1broseidon/wogix/internal/wm"
)

const maxTitleWidth = 40

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	focusedStyle  = cellStyle.Foreground(lipgloss.Color("42"))
	unmappedStyle = cellStyle.Foreground(lipgloss.Color("241"))
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// Headers returns the column names used by Row.
func Headers() []string {
	return []string{"ID", "NAME", "CLASS", "TITLE", "STATE", "GEOMETRY"}
}

// Row formats one window for tabular output. Absent resource fields are
// shown as "-".
func Row(s wm.Snapshot) []string {
	return []string{
		fmt.Sprintf("0x%x", s.ID),
		orDash(s.ResourceName),
		orDash(s.ResourceClass),
		s.Title,
		State(s),
		fmt.Sprintf("%dx%d+%d+%d", s.Width, s.Height, s.X, s.Y),
	}
}

// State summarizes the flags of s, e.g. "mapped,focused".
func State(s wm.Snapshot) string {
	parts := make([]string, 0, 4)
	if s.Mapped {
		parts = append(parts, "mapped")
	} else {
		parts = append(parts, "iconified")
	}
	if s.Focused {
		parts = append(parts, "focused")
	}
	if s.Framed {
		parts = append(parts, "framed")
	}
	if s.DelayedResize {
		parts = append(parts, "resize-pending")
	}
	return strings.Join(parts, ",")
}

// RenderTable draws windows as a bordered table. Focused windows are
// highlighted and iconified ones dimmed. A width of zero lets the table
// size itself.
func RenderTable(windows []wm.Snapshot, width int) string {
	rows := make([][]string, 0, len(windows))
	for _, w := range windows {
		row := Row(w)
		row[3] = truncate(row[3], maxTitleWidth)
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(Headers()...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(windows) {
				return cellStyle
			}
			switch {
			case windows[row].Focused:
				return focusedStyle
			case !windows[row].Mapped:
				return unmappedStyle
			}
			return cellStyle
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.String()
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
