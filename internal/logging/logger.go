package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// DefaultLogger is the process-wide logger. Components take a *log.Logger
// so tests can pass a silenced one.
var DefaultLogger = log.Default()

// Init configures the default logger for server use.
func Init(level string) {
	DefaultLogger.SetTimeFormat("2006-01-02 15:04:05")
	if lvl, err := log.ParseLevel(level); err == nil {
		DefaultLogger.SetLevel(lvl)
	}
}

// Discard returns a logger that writes nothing. Used in tests.
func Discard() *log.Logger {
	l := log.New(os.Stderr)
	l.SetLevel(log.FatalLevel + 1)
	return l
}
