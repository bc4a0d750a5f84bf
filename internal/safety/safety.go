// Package safety implements the fill station's dead-man timer: an
// emergency shutdown fired once after 15 seconds with no connected
// operator client (spec.md §4.4), grounded on the original source's
// safety monitor task and on the shared iohw.Hardware handle.
package safety

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/cornellrocketryteam/control-core/internal/iohw"
)

const (
	pollInterval   = 500 * time.Millisecond
	deadManTimeout = 15 * time.Second
)

// Monitor polls an active-client counter and drives the shared
// Hardware to a safe state if it stays at zero too long.
type Monitor struct {
	HW            *iohw.Hardware
	ActiveClients *atomic.Int64
	Logger        *log.Logger

	triggered atomic.Bool

	// now is overridable in tests.
	now func() time.Time
}

// New wires a Monitor against the shared active-client counter.
func New(hw *iohw.Hardware, activeClients *atomic.Int64, logger *log.Logger) *Monitor {
	return &Monitor{HW: hw, ActiveClients: activeClients, Logger: logger, now: time.Now}
}

// Triggered reports whether the emergency shutdown has fired.
func (m *Monitor) Triggered() bool { return m.triggered.Load() }

// Run polls every pollInterval until ctx is canceled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var disconnectedAt time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count := m.ActiveClients.Load()
			switch {
			case count > 0:
				disconnectedAt = time.Time{}
				m.triggered.Store(false)
			case disconnectedAt.IsZero():
				disconnectedAt = m.now()
			case !m.triggered.Load() && m.now().Sub(disconnectedAt) > deadManTimeout:
				m.shutdown()
				m.triggered.Store(true)
			}
		}
	}
}

// shutdown deactuates SV1-5 per their LinePull, then closes the MAV
// (spec.md §4.4).
func (m *Monitor) shutdown() {
	m.Logger.Println("safety: dead-man timeout, performing emergency shutdown")
	for name := range m.HW.Solenoids {
		if err := m.HW.ActuateSolenoid(name, false); err != nil {
			m.Logger.Printf("safety: deactuate %s: %v", name, err)
		}
	}
	if err := m.HW.Mav.Close(); err != nil {
		m.Logger.Printf("safety: close mav: %v", err)
	}
}
