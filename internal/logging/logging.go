// Package logging sets up the process-wide logger used by every
// enrollment and query path. It uses a bracketed-component-tag
// convention ([index], [match], [chunk N]) with colorized severity
// prefixes for interactive CLI use, and wraps
// errors crossing package boundaries with github.com/mdobak/go-xerrors
// so a failure keeps its originating stack frame without a caller
// having to format one by hand.
package logging

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/mdobak/go-xerrors"
)

var (
	infoTag = color.New(color.FgCyan).SprintFunc()
	warnTag = color.New(color.FgYellow).SprintFunc()
	errTag  = color.New(color.FgRed, color.Bold).SprintFunc()
	okTag   = color.New(color.FgGreen).SprintFunc()
)

func init() {
	log.SetFlags(log.Ltime)
}

// Component returns a logger prefix function scoped to one pipeline
// stage, e.g. logging.Component("fingerprint") yields a function that
// prints "[fingerprint] ..." lines.
func Component(name string) func(format string, args ...any) {
	return func(format string, args ...any) {
		log.Printf("[%s] %s", name, fmt.Sprintf(format, args...))
	}
}

// Info prints a cyan-tagged informational line to stdout, used by the
// CLI for progress the operator is expected to read directly (as
// opposed to log.Printf diagnostic lines, which go to stderr).
func Info(format string, args ...any) {
	fmt.Fprintln(os.Stdout, infoTag("info:"), fmt.Sprintf(format, args...))
}

// Warn prints a yellow-tagged warning.
func Warn(format string, args ...any) {
	fmt.Fprintln(os.Stdout, warnTag("warn:"), fmt.Sprintf(format, args...))
}

// Error prints a red, bold-tagged error.
func Error(format string, args ...any) {
	fmt.Fprintln(os.Stderr, errTag("error:"), fmt.Sprintf(format, args...))
}

// OK prints a green-tagged success line.
func OK(format string, args ...any) {
	fmt.Fprintln(os.Stdout, okTag("ok:"), fmt.Sprintf(format, args...))
}

// Wrap annotates err with a message and a captured stack frame via
// go-xerrors, for errors that cross a package boundary and need more
// context than fmt.Errorf's %w gives a later log line.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return xerrors.New(fmt.Errorf("%s: %w", message, err))
}
