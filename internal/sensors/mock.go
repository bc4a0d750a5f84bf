package sensors

import "github.com/cornellrocketryteam/control-core/internal/flightpacket"

// MockModule is a deterministic in-memory stand-in for hardware-backed
// modules, used by this package's tests. No binary in this repository
// constructs it, and there is no simulation-mode switch that selects it.
// Fail, when set, makes Read return an error on every call — used to
// drive the altimeter fault path in tests without real hardware.
type MockModule struct {
	ReadFunc func(p *flightpacket.Packet)
	Fail     bool
}

func (m *MockModule) Init() error { return nil }

func (m *MockModule) Read(p *flightpacket.Packet) error {
	if m.Fail {
		return errMockFail
	}
	if m.ReadFunc != nil {
		m.ReadFunc(p)
	}
	return nil
}

type mockFailError struct{}

func (mockFailError) Error() string { return "mock sensor configured to fail" }

var errMockFail = mockFailError{}
