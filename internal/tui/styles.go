package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/wogix/internal/ipc"
)

var (
	filterStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 1)
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(1, 1)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Padding(0, 1)
	noticeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Padding(0, 1)
)

// renderStatusBar renders the daemon connection status bar.
func renderStatusBar(connected bool, status *ipc.StatusData, width int) string {
	var text string
	if connected && status != nil {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{
			dot + " daemon connected",
			fmt.Sprintf("windows:%d", status.WindowCount),
			"screen:" + formatRect(status.Screen),
			"work:" + formatRect(status.WorkArea),
		}
		text = strings.Join(parts, "  ")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		text = dot + " daemon not running"
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(text)
}

// renderHelpBar renders the bottom help/keybinding bar.
func renderHelpBar(editing bool, width int) string {
	help := "/: filter  m: mapped only  a: all  r: reconcile  q/ctrl-c: quit"
	if editing {
		help = "enter: apply  esc: cancel  ctrl-c: quit"
	}
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}

func formatRect(r ipc.Rect) string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}
