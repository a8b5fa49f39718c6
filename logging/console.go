package logging

import (
	"time"

	"github.com/fatih/color"
)

// completionLine renders an access-log line in three columns: a status
// label, the elapsed time, and the request summary.
func completionLine(status int, elapsed time.Duration, summary string) string {

	// Column 1: status class
	lbl := color.New(color.FgWhite).Add(color.BgGreen).Sprintf(" %d ", status)
	switch {
	case status/100 == 5:
		lbl = color.New(color.FgWhite).Add(color.BgRed).Sprintf(" %d ", status)
	case status/100 == 4:
		lbl = color.New(color.FgBlack).Add(color.BgYellow).Sprintf(" %d ", status)
	}

	// Column 2: time elapsed, highlighted when slow
	tclr := color.New(color.FgWhite, color.Faint)
	if elapsed > 500*time.Millisecond {
		tclr = color.New(color.FgWhite).Add(color.BgCyan)
	}
	elapsedCol := tclr.Sprintf("%13v", elapsed)

	return "|" + lbl + "| " + elapsedCol + " | " + summary
}
