// Package printer writes user-facing run output: fatal errors, warnings about
// skipped plots and the final report line.
package printer

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
)

// Stderr is where Error and Warning write. Tests swap it.
var Stderr io.Writer = os.Stderr

// Stdout is where Success writes.
var Stdout io.Writer = os.Stdout

// Success prints a green line prefixed with a checkmark.
func Success(format string, a ...any) {
	green.Fprintf(Stdout, "✓ %s\n", fmt.Sprintf(format, a...))
}

func Warning(format string, a ...any) {
	yellow.Fprintf(Stderr, "⚠  %s\n", fmt.Sprintf(format, a...))
}

// Error prints a red title, an explanation and optional suggestions, then
// returns an error carrying only the title for the command to exit with.
func Error(title, explanation string, suggestions ...string) error {
	red.Fprintf(Stderr, "%s\n", title)
	if explanation != "" {
		fmt.Fprintf(Stderr, "\n%s\n", explanation)
	}

	switch len(suggestions) {
	case 0:
	case 1:
		fmt.Fprintf(Stderr, "\n%s\n", suggestions[0])
	default:
		fmt.Fprintf(Stderr, "\nEither:\n")
		for i, suggestion := range suggestions {
			fmt.Fprintf(Stderr, "  %d. %s\n", i+1, suggestion)
		}
	}
	return fmt.Errorf("%s", title)
}
