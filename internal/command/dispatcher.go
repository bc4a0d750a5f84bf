package command

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/cornellrocketryteam/control-core/internal/iohw"
)

// igniteFireTime is how long an igniter's signal line is held HIGH
// (spec.md §4.2 "Ignite").
const igniteFireTime = 3 * time.Second

// Dispatcher executes parsed Commands against the shared Hardware
// handle, grounded on spec.md §4.2's command set. Multi-second
// operations (Ignite, BVOpen, BVClose) are spawned as detached
// goroutines so the calling connection's read loop is never blocked —
// the same "fire and forget" shape the original command.rs stub
// implies with its immediate Success response.
type Dispatcher struct {
	HW     *iohw.Hardware
	Adc    *iohw.AdcReadings
	Logger *log.Logger

	// adcStreaming gates whether StartAdcStream/StopAdcStream's caller
	// should begin/stop pushing adc_data frames; the fillserver
	// connection handler owns the actual send loop and just reads this.
	adcStreaming atomic.Bool
}

// NewDispatcher wires a Dispatcher against a Hardware handle.
func NewDispatcher(hw *iohw.Hardware, adc *iohw.AdcReadings, logger *log.Logger) *Dispatcher {
	return &Dispatcher{HW: hw, Adc: adc, Logger: logger}
}

// Dispatch executes one parsed Command and returns the Response to
// send back on the same connection.
func (d *Dispatcher) Dispatch(cmd Command) Response {
	switch cmd.Command {
	case CmdIgnite:
		return d.ignite(cmd)
	case CmdGetIgniterContinuity:
		return d.getIgniterContinuity(cmd)
	case CmdActuateValve:
		return d.actuateValve(cmd)
	case CmdGetValveState:
		return d.getValveState(cmd)
	case CmdStartAdcStream:
		d.adcStreaming.Store(true)
		return Success()
	case CmdStopAdcStream:
		d.adcStreaming.Store(false)
		return Success()
	case CmdSetMavAngle:
		return d.setMavAngle(cmd)
	case CmdMavOpen:
		return d.mavAction(d.HW.Mav.Open)
	case CmdMavClose:
		return d.mavAction(d.HW.Mav.Close)
	case CmdMavNeutral:
		return d.mavAction(d.HW.Mav.Neutral)
	case CmdGetMavState:
		return d.getMavState()
	case CmdBVOpen:
		go d.runBallValveSequence(d.HW.BallValve.OpenSequence, "open")
		return Success()
	case CmdBVClose:
		go d.runBallValveSequence(d.HW.BallValve.CloseSequence, "close")
		return Success()
	case CmdBVSignal:
		return d.bvSignal(cmd)
	case CmdBVOnOff:
		return d.bvOnOff(cmd)
	case CmdHeartbeat:
		return Success()
	default:
		return errorResponse(fmt.Errorf("unknown command %q", cmd.Command))
	}
}

// Streaming reports whether StartAdcStream is currently active.
func (d *Dispatcher) Streaming() bool { return d.adcStreaming.Load() }

// ignite fires every wired igniter line (spec.md §4.2, S3): the wire
// frame carries no id, and a launch ignite must light both channels.
func (d *Dispatcher) ignite(cmd Command) Response {
	for name, ig := range d.HW.Igniters {
		go func(name string, ig *iohw.Igniter) {
			if err := ig.SetActuated(true); err != nil {
				d.Logger.Printf("ignite %s: %v", name, err)
				return
			}
			time.Sleep(igniteFireTime)
			if err := ig.SetActuated(false); err != nil {
				d.Logger.Printf("ignite %s: disarm: %v", name, err)
			}
		}(name, ig)
	}
	return Success()
}

func (d *Dispatcher) getIgniterContinuity(cmd Command) Response {
	ig, ok := d.HW.Igniter(cmd.ID)
	if !ok {
		return errorResponse(fmt.Errorf("igniter %d not wired", cmd.ID))
	}
	c := ig.HasContinuity()
	return Response{Type: TypeIgniterContinuity, ID: cmd.ID, Continuity: &c}
}

func (d *Dispatcher) actuateValve(cmd Command) Response {
	if cmd.State == nil {
		return errorResponse(fmt.Errorf("actuate_valve: missing state"))
	}
	if err := d.HW.ActuateSolenoid(cmd.Valve, *cmd.State); err != nil {
		return errorResponse(err)
	}
	return Success()
}

func (d *Dispatcher) getValveState(cmd Command) Response {
	sv, ok := d.HW.Solenoid(cmd.Valve)
	if !ok {
		return errorResponse(fmt.Errorf("valve %q not wired", cmd.Valve))
	}
	actuated := sv.IsActuated()
	continuity := sv.Continuity()
	return Response{Type: TypeValveState, Actuated: &actuated, Continuity: &continuity}
}

func (d *Dispatcher) setMavAngle(cmd Command) Response {
	if err := d.HW.Mav.SetAngle(cmd.Angle); err != nil {
		return errorResponse(err)
	}
	return Success()
}

func (d *Dispatcher) mavAction(fn func() error) Response {
	if err := fn(); err != nil {
		return errorResponse(err)
	}
	return Success()
}

func (d *Dispatcher) getMavState() Response {
	angle := d.HW.Mav.AngleDeg()
	us := d.HW.Mav.PulseUS()
	return Response{Type: TypeMavState, Angle: &angle, PulseWidthUS: &us}
}

func (d *Dispatcher) runBallValveSequence(seq func() error, label string) {
	if err := seq(); err != nil {
		d.Logger.Printf("ball valve %s sequence: %v", label, err)
	}
}

func (d *Dispatcher) bvSignal(cmd Command) Response {
	high, err := parseLineState(cmd.LineState)
	if err != nil {
		return errorResponse(err)
	}
	if err := d.HW.BallValve.SetSignal(high); err != nil {
		return errorResponse(err)
	}
	return Success()
}

func (d *Dispatcher) bvOnOff(cmd Command) Response {
	high, err := parseLineState(cmd.LineState)
	if err != nil {
		return errorResponse(err)
	}
	if err := d.HW.BallValve.SetOnOff(high); err != nil {
		return errorResponse(err)
	}
	return Success()
}

func parseLineState(s string) (bool, error) {
	switch s {
	case "high":
		return true, nil
	case "low":
		return false, nil
	default:
		return false, fmt.Errorf("invalid line state %q, want \"high\" or \"low\"", s)
	}
}

func errorResponse(err error) Response {
	return Response{Type: TypeError, Message: err.Error()}
}
