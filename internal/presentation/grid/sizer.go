package grid

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/penwyp/go-timesheet/internal/util"
	"golang.org/x/term"
)

const (
	defaultWidth = 100
	minWidth     = 60
)

// TerminalWidth returns the width of stdout, or a default when stdout is not a terminal
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < minWidth {
		util.LogDebugf("Terminal width unavailable (%v), using %d", err, defaultWidth)
		return defaultWidth
	}
	return width
}

// displayWidth counts terminal cells, so wide and combining runes line up
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// pad fills s with spaces up to width cells
func pad(s string, width int, leftAlign bool) string {
	w := displayWidth(s)
	if w >= width {
		return s
	}
	padding := strings.Repeat(" ", width-w)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// truncate shortens s to at most width cells, ending with an ellipsis when cut
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
