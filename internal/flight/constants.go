package flight

import "time"

// Tunables carried over from the original source's constants.rs
// variants (spec.md §9 Open Questions notes three disagreeing values
// for NeutralUS; the servo driver's own 1520us is chosen as the
// documented default — see DESIGN.md).
const (
	// CycleHz is the nominal FSM step rate.
	CycleHz = 10
	CyclePeriod = time.Second / CycleHz

	// AltitudeBufSize is the ring buffer's fixed slot count (spec.md §3).
	AltitudeBufSize = 10

	// MainDeployWaitCycles is how many cycles DrogueDeployed waits
	// before it is eligible to check the main-chute altitude trigger.
	MainDeployWaitCycles = 50 // 5s at 10Hz

	// MainLogEndCycles is how many cycles after main deployment the
	// data logger stays armed before shutdown (spec.md §4.1).
	MainLogEndCycles = 300 // 30s at 10Hz
)

// sentinel marks an unfilled slot in the three-stage descent filter.
const sentinel = float32(-1e9)
