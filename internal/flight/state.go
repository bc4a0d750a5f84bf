package flight

import "github.com/cornellrocketryteam/control-core/internal/flightpacket"

// AltimeterState is a one-way latch within a single flight, per
// spec.md §4.1 "Altimeter state policy".
type AltimeterState int

const (
	AltimeterOff AltimeterState = iota
	AltimeterValid
	AltimeterInvalid
)

func (s AltimeterState) String() string {
	switch s {
	case AltimeterOff:
		return "OFF"
	case AltimeterValid:
		return "VALID"
	case AltimeterInvalid:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}

// Config holds the tunable thresholds named in spec.md §4.1 and §8 (S1).
type Config struct {
	ArmingAltitude     float32 // ARMING_ALTITUDE
	MainDeployAltitude float32 // MAIN_DEPLOY_ALTITUDE
}

// DefaultConfig matches the values used by spec.md §8 scenario S1.
func DefaultConfig() Config {
	return Config{
		ArmingAltitude:     100,
		MainDeployAltitude: 500,
	}
}

// AltitudeRing is the fixed 10-slot altitude ring buffer with a
// running sum, per spec.md §3 and testable property 2.
type AltitudeRing struct {
	slots [AltitudeBufSize]float32
	next  int
	count int
	sum   float32
}

// Push appends an altitude sample, evicting the oldest slot once full,
// and keeps Sum() equal to the algebraic sum of the current slots.
func (r *AltitudeRing) Push(v float32) {
	if r.count == AltitudeBufSize {
		r.sum -= r.slots[r.next]
	} else {
		r.count++
	}
	r.slots[r.next] = v
	r.sum += v
	r.next = (r.next + 1) % AltitudeBufSize
}

// Sum returns the current running sum of all filled slots.
func (r *AltitudeRing) Sum() float32 { return r.sum }

// Mean returns Sum()/count, or 0 if no samples have been pushed yet.
func (r *AltitudeRing) Mean() float32 {
	if r.count == 0 {
		return 0
	}
	return r.sum / float32(r.count)
}

// Full reports whether all 10 slots hold real samples.
func (r *AltitudeRing) Full() bool { return r.count == AltitudeBufSize }

// DescentFilter is the three-stage strictly-decreasing apogee filter
// over successive 10-sample means (spec.md §3, §4.1, §8 property 3).
type DescentFilter struct {
	slots [3]float32
}

// NewDescentFilter returns a filter with all slots sentinel (unarmed).
func NewDescentFilter() DescentFilter {
	return DescentFilter{slots: [3]float32{sentinel, sentinel, sentinel}}
}

// Shift pushes a new 10-sample mean in, dropping the oldest.
func (f *DescentFilter) Shift(mean float32) {
	f.slots[0] = f.slots[1]
	f.slots[1] = f.slots[2]
	f.slots[2] = mean
}

// Armed reports whether all three slots hold real (non-sentinel) values.
func (f *DescentFilter) Armed() bool {
	return f.slots[0] != sentinel && f.slots[1] != sentinel && f.slots[2] != sentinel
}

// ApogeeDetected reports strictly-monotone descent across the three
// latest 10-sample means: slots[0] > slots[1] > slots[2].
func (f *DescentFilter) ApogeeDetected() bool {
	return f.Armed() && f.slots[0] > f.slots[1] && f.slots[1] > f.slots[2]
}

// Latches holds the FSM's independently-observable side-effect flags.
// Deliberately kept as a flat record rather than folded into the mode
// enum (spec.md §9 design note: "Latch booleans").
type Latches struct {
	AltArmed           bool
	MavOpen            bool
	SvOpen             bool
	CameraDeployed     bool
	AirbrakesInit      bool
	DrogueDeployed     bool
	MainChutesDeployed bool
	BlimsArmed         bool
	LogArmed           bool
}

// Loop is the FSM's mutable filter/counter/latch state, owned
// exclusively by the FSM driver goroutine (spec.md §3 FlightLoop).
type Loop struct {
	Altitudes      AltitudeRing
	Filtered       DescentFilter
	MainCycleCount int
	LogCycleCount  int
	Latches        Latches
}

// NewLoop returns a fresh Loop with an unarmed descent filter.
func NewLoop() *Loop {
	return &Loop{Filtered: NewDescentFilter()}
}

// State is the process-lifetime flight state, mutated only by the FSM
// driver task (spec.md §3 FlightState). Sensor/actuator/radio/scratchpad
// handles are not embedded here; they are passed to New as the
// interfaces in deps.go, so the FSM stays testable without real hardware.
type State struct {
	Packet flightpacket.Packet

	Mode               flightpacket.FlightMode
	CycleCount         uint64
	KeyArmed           bool
	UmbilicalConnected bool
	LaunchCommanded    bool

	AltimeterState    AltimeterState
	ReferencePressure float32
	ArmingAltitude    float32 // latched ground-reference altitude (spec.md §3 field)
	SDLoggingEnabled  bool

	Loop *Loop
}

// NewState returns a freshly booted flight state.
func NewState() *State {
	return &State{
		Mode:           flightpacket.Startup,
		AltimeterState: AltimeterOff,
		Loop:           NewLoop(),
	}
}
