package iohw

import "os"

// SDLogger implements flight.DataLogger by checking for the presence
// of a mounted SD card path: spec.md treats SD logging's availability
// (not its content) as the one signal the FSM reacts to via
// SDLoggingEnabled, and register-level SD/SPI-card filesystem access
// is out of scope (spec.md §1 Non-goals).
type SDLogger struct {
	MountPath string
}

// Available reports whether the configured mount path exists.
func (s *SDLogger) Available() bool {
	_, err := os.Stat(s.MountPath)
	return err == nil
}

// Shutdown implements flight.DataLogger; there is no open file handle
// to flush since this logger only observes mount presence.
func (s *SDLogger) Shutdown() error { return nil }
