// Package printer handles colored terminal output for the CLI.
package printer

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func init() {
	// Honor NO_COLOR; otherwise keep color on even without a TTY so piped
	// output matches what operators see interactively.
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// Success prints a success message in green with a checkmark prefix.
func Success(format string, a ...any) {
	green.Printf("✓ %s", fmt.Sprintf(format, a...))
}

// Warning prints a warning message in yellow.
func Warning(format string, a ...any) {
	yellow.Printf("! %s", fmt.Sprintf(format, a...))
}

// Step prints a step message with emphasis for multi-step operations.
func Step(format string, a ...any) {
	cyan.Printf("→ %s", fmt.Sprintf(format, a...))
}

// Error prints a titled error to stderr and returns a plain error for
// cobra to propagate (errors are silenced at the root command).
func Error(title string, explanation string) error {
	red.Fprintf(os.Stderr, "%s\n", title)
	if explanation != "" {
		fmt.Fprintf(os.Stderr, "  %s\n", explanation)
	}
	return fmt.Errorf("%s", title)
}

// Printf prints a plain formatted message.
func Printf(format string, a ...any) {
	fmt.Printf(format, a...)
}

// Println prints a plain message.
func Println(a ...any) {
	fmt.Println(a...)
}
