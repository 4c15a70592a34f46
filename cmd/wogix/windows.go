package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/1broseidon/wogix/internal/cfilter"
	"github.com/1broseidon/wogix/internal/ipc"
	"github.com/1broseidon/wogix/internal/tui"
	"github.com/1broseidon/wogix/internal/wm"
)

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wogix status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("window_count:   %d\n", status.WindowCount)
	fmt.Printf("screen:         %s\n", formatRect(status.Screen))
	fmt.Printf("work_area:      %s\n", formatRect(status.WorkArea))
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	filter := fs.String("filter", "", "Window filter, e.g. 'mapped' or '{name: xterm}' (default: all windows)")
	jsonOut := fs.Bool("json", false, "Output windows as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wogix list [--filter FILTER] [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List the windows managed by the daemon, in adoption order.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "list takes no arguments")
		fs.Usage()
		return 2
	}
	if err := checkFilter(*filter); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	data, err := ipc.NewClient().ListWindows(*filter)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch {
	case *jsonOut:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	case term.IsTerminal(int(os.Stdout.Fd())):
		width, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			width = 0
		}
		fmt.Println(tui.RenderTable(data.Windows, width))
	default:
		writeTSV(os.Stdout, data.Windows)
	}
	return 0
}

func writeTSV(w io.Writer, windows []wm.Snapshot) {
	fmt.Fprintln(w, strings.Join(tui.Headers(), "\t"))
	for _, s := range windows {
		fmt.Fprintln(w, strings.Join(tui.Row(s), "\t"))
	}
}

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	filter := fs.String("filter", "", "Initial window filter (default: all windows)")
	interval := fs.Duration("interval", time.Second, "Refresh interval")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wogix watch [--filter FILTER] [--interval D]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Live view of the daemon's windows.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  /         Edit the window filter")
		fmt.Fprintln(os.Stderr, "  m         Toggle mapped windows only")
		fmt.Fprintln(os.Stderr, "  a         Show all windows")
		fmt.Fprintln(os.Stderr, "  r         Reconcile now")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C Quit")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if err := checkFilter(*filter); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if err := tui.Run(ipc.NewClient(), *filter, *interval); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runClamp(args []string) int {
	fs := flag.NewFlagSet("clamp", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	x := fs.Int("x", 0, "Proposed left edge")
	y := fs.Int("y", 0, "Proposed top edge")
	width := fs.Int("width", 0, "Proposed width")
	height := fs.Int("height", 0, "Proposed height")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wogix clamp [--x X] [--y Y] --width W --height H <window-id>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print the rectangle the daemon would use to keep the window on screen.")
		fmt.Fprintln(os.Stderr, "The window is not moved.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "clamp requires <window-id>")
		fs.Usage()
		return 2
	}
	id, err := parseWindowID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	data, err := ipc.NewClient().KeepOnScreen(id, ipc.Rect{X: *x, Y: *y, Width: *width, Height: *height})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(formatRect(data.Rect))
	return 0
}

func runReconcile(args []string) int {
	fs := flag.NewFlagSet("reconcile", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wogix reconcile")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Withdraw managed windows that no longer exist on the display.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	data, err := ipc.NewClient().Reconcile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, id := range data.Withdrawn {
		fmt.Printf("withdrawn 0x%x\n", id)
	}
	return 0
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wogix reload")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ask the daemon to re-read its configuration.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// checkFilter rejects a malformed filter before it reaches the daemon.
func checkFilter(filter string) error {
	if strings.TrimSpace(filter) == "" {
		return nil
	}
	_, err := cfilter.Parse(filter)
	return err
}

func parseWindowID(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return uint32(v), nil
}

func formatRect(r ipc.Rect) string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}
