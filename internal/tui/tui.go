package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Run shows a live view of the daemon's managed windows until the user
// quits. filter is the initial window filter; interval is the poll period.
func Run(source Source, filter string, interval time.Duration) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("watch requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(source, interval, filter), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
