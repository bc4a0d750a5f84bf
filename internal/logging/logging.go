// Package logging constructs the fill station's human-readable rolling
// log, grounded on the teacher's log.New(...) construction pattern
// (internal/server/dependencies.go) with the writer swapped for a
// lumberjack-backed rolling file per spec.md §6's log paths.
package logging

import (
	"log"
	"path/filepath"

	"github.com/cornellrocketryteam/control-core/internal/config"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// New builds a *log.Logger prefixed "[fill-station] " writing to a
// rolling file under cfg.Dir named tracing.log, rotated per cfg's size
// and retention settings (spec.md §6: "/tmp/fill-station/logs/tracing.log.*").
func New(cfg config.LoggingConfig) *log.Logger {
	writer := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, "tracing.log"),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	return log.New(writer, "[fill-station] ", log.LstdFlags|log.Lshortfile)
}

// NewFlightLogger is the flight computer's equivalent: a *log.Logger
// prefixed "[flight] " writing directly to a rolling file under cfg.Dir
// named flight.log. There is no separate drain goroutine, and nothing
// is written to USB or stdout.
func NewFlightLogger(cfg config.LoggingConfig) *log.Logger {
	writer := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, "flight.log"),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	return log.New(writer, "[flight] ", log.LstdFlags|log.Lshortfile)
}
