// Package rlog is the module's thin wrapper around charmbracelet/log,
// giving every component a structured, leveled logger instead of bare
// fmt.Printf debug output.
package rlog

import (
	"os"

	"github.com/charmbracelet/log"
)

// Default is the process-wide logger. Components needing leveled/structured
// output (as opposed to the human-readable result tables the cmd/ binaries
// print directly to stdout) use this.
var Default = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "rlnc",
})

// With returns a derived logger carrying the given key/value fields.
func With(keyvals ...interface{}) *log.Logger {
	return Default.With(keyvals...)
}
