package command

import (
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cornellrocketryteam/control-core/internal/config"
	"github.com/cornellrocketryteam/control-core/internal/iohw"
	"periph.io/x/periph/conn/gpio/gpiotest"
)

func testHardware(t *testing.T) *iohw.Hardware {
	t.Helper()

	sv1Control := &gpiotest.Pin{N: "sv1-control"}
	sv1Signal := &gpiotest.Pin{N: "sv1-signal"}
	sv1, err := iohw.NewSolenoidValve("sv1", sv1Control, sv1Signal, config.NormallyClosed, false)
	require.NoError(t, err)

	ig1Signal := &gpiotest.Pin{N: "ig1-signal"}
	ig1Continuity := &gpiotest.Pin{N: "ig1-continuity", L: true}
	ig1, err := iohw.NewIgniter("igniter1", ig1Continuity, ig1Signal)
	require.NoError(t, err)

	ig2Signal := &gpiotest.Pin{N: "ig2-signal"}
	ig2Continuity := &gpiotest.Pin{N: "ig2-continuity", L: true}
	ig2, err := iohw.NewIgniter("igniter2", ig2Continuity, ig2Signal)
	require.NoError(t, err)

	bvOnOff := &gpiotest.Pin{N: "bv-onoff"}
	bvSignal := &gpiotest.Pin{N: "bv-signal"}
	bv, err := iohw.NewBallValve(bvOnOff, bvSignal)
	require.NoError(t, err)

	pwm := &iohw.PWMPin{
		SetDutyNS:   func(ns uint32) error { return nil },
		SetPeriodNS: func(ns uint32) error { return nil },
		Enable:      func(e bool) error { return nil },
	}
	mavCfg := config.MavConfig{
		PeriodUS: 20000, OpenUS: 2000, CloseUS: 1000, NeutralUS: 1500,
		MinUS: 1000, MaxUS: 2000,
	}
	mav, err := iohw.NewMav(*pwm, mavCfg)
	require.NoError(t, err)

	return iohw.NewHardware(
		map[string]*iohw.SolenoidValve{"sv1": sv1},
		bv,
		mav,
		map[string]*iohw.Igniter{"igniter1": ig1, "igniter2": ig2},
		log.New(logDiscard{}, "", 0),
	)
}

type logDiscard struct{}

func (logDiscard) Write(p []byte) (int, error) { return len(p), nil }

func TestDispatchActuateAndGetValveState(t *testing.T) {
	hw := testHardware(t)
	d := NewDispatcher(hw, iohw.NewAdcReadings(), log.New(logDiscard{}, "", 0))

	enable := true
	resp := d.Dispatch(Command{Command: CmdActuateValve, Valve: "sv1", State: &enable})
	assert.Equal(t, TypeSuccess, resp.Type)

	resp = d.Dispatch(Command{Command: CmdGetValveState, Valve: "sv1"})
	require.Equal(t, TypeValveState, resp.Type)
	require.NotNil(t, resp.Actuated)
	assert.True(t, *resp.Actuated)
}

func TestDispatchUnknownValveErrors(t *testing.T) {
	hw := testHardware(t)
	d := NewDispatcher(hw, iohw.NewAdcReadings(), log.New(logDiscard{}, "", 0))

	resp := d.Dispatch(Command{Command: CmdGetValveState, Valve: "sv9"})
	assert.Equal(t, TypeError, resp.Type)
}

// TestDispatchIgniteFiresThenClears exercises scenario S3: the real
// wire frame carries no id, and ignite must drive every wired igniter
// line high, then clear them after the fire duration, without blocking
// the dispatch call itself.
func TestDispatchIgniteFiresThenClears(t *testing.T) {
	hw := testHardware(t)
	d := NewDispatcher(hw, iohw.NewAdcReadings(), log.New(logDiscard{}, "", 0))

	cmd, err := Parse([]byte(`{"command":"ignite"}`))
	require.NoError(t, err)

	resp := d.Dispatch(cmd)
	assert.Equal(t, TypeSuccess, resp.Type)

	ig1, ok := hw.Igniter(1)
	require.True(t, ok, "igniter1 not wired")
	ig2, ok := hw.Igniter(2)
	require.True(t, ok, "igniter2 not wired")

	deadline := time.Now().Add(200 * time.Millisecond)
	for (!ig1.IsIgniting() || !ig2.IsIgniting()) && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	assert.True(t, ig1.IsIgniting(), "igniter1 did not fire within 200ms of dispatch")
	assert.True(t, ig2.IsIgniting(), "igniter2 did not fire within 200ms of dispatch")

	deadline = time.Now().Add(igniteFireTime + 500*time.Millisecond)
	for (ig1.IsIgniting() || ig2.IsIgniting()) && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.False(t, ig1.IsIgniting(), "igniter1 still firing after the fire duration")
	assert.False(t, ig2.IsIgniting(), "igniter2 still firing after the fire duration")
}

// TestDispatchBVOnOffInterlock exercises scenario S5: BVSignal is
// refused while on_off is HIGH.
func TestDispatchBVOnOffInterlock(t *testing.T) {
	hw := testHardware(t)
	d := NewDispatcher(hw, iohw.NewAdcReadings(), log.New(logDiscard{}, "", 0))

	resp := d.Dispatch(Command{Command: CmdBVOnOff, LineState: "high"})
	assert.Equal(t, TypeSuccess, resp.Type)

	resp = d.Dispatch(Command{Command: CmdBVSignal, LineState: "high"})
	assert.Equal(t, TypeError, resp.Type)
}

func TestDispatchHeartbeatAndStream(t *testing.T) {
	hw := testHardware(t)
	d := NewDispatcher(hw, iohw.NewAdcReadings(), log.New(logDiscard{}, "", 0))

	resp := d.Dispatch(Command{Command: CmdHeartbeat})
	assert.Equal(t, TypeSuccess, resp.Type)

	assert.False(t, d.Streaming(), "adc streaming should start false")
	d.Dispatch(Command{Command: CmdStartAdcStream})
	assert.True(t, d.Streaming(), "start_adc_stream should enable streaming")
	d.Dispatch(Command{Command: CmdStopAdcStream})
	assert.False(t, d.Streaming(), "stop_adc_stream should disable streaming")
}

func TestParseCommandJSON(t *testing.T) {
	cmd, err := Parse([]byte(`{"command":"actuate_valve","valve":"sv2","state":true}`))
	require.NoError(t, err)
	assert.Equal(t, CmdActuateValve, cmd.Command)
	assert.Equal(t, "sv2", cmd.Valve)
	require.NotNil(t, cmd.State)
	assert.True(t, *cmd.State)

	cmd, err = Parse([]byte(`{"command":"bv_signal","state":"high"}`))
	require.NoError(t, err)
	assert.Equal(t, CmdBVSignal, cmd.Command)
	assert.Equal(t, "high", cmd.LineState)
}
