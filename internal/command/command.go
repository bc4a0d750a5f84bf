// Package command defines the fill station's websocket JSON command
// and response envelopes (spec.md §6), grounded on the original
// source's command.rs tag/rename_all convention translated into Go's
// flat-struct JSON idiom.
package command

import "encoding/json"

// Command is the incoming websocket frame, discriminated by the
// snake_case "command" field. Only the fields relevant to a given
// Command are populated; the rest are zero values.
type Command struct {
	Command string `json:"command"`

	Valve string `json:"valve,omitempty"`
	State *bool  `json:"state,omitempty"`
	ID    int    `json:"id,omitempty"`
	Angle float64 `json:"angle,omitempty"`

	// LineState carries bv_signal/bv_on_off's "high"/"low" wire values
	// (spec.md §6), distinct from ActuateValve's boolean State.
	LineState string `json:"-"`
}

// Known command tags (spec.md §6).
const (
	CmdIgnite               = "ignite"
	CmdGetIgniterContinuity = "get_igniter_continuity"
	CmdActuateValve         = "actuate_valve"
	CmdGetValveState        = "get_valve_state"
	CmdStartAdcStream       = "start_adc_stream"
	CmdStopAdcStream        = "stop_adc_stream"
	CmdSetMavAngle          = "set_mav_angle"
	CmdMavOpen              = "mav_open"
	CmdMavClose             = "mav_close"
	CmdMavNeutral           = "mav_neutral"
	CmdGetMavState          = "get_mav_state"
	CmdBVOpen               = "bv_open"
	CmdBVClose              = "bv_close"
	CmdBVSignal             = "bv_signal"
	CmdBVOnOff              = "bv_on_off"
	CmdHeartbeat            = "heartbeat"
)

// rawCommand mirrors Command's wire shape but keeps "state" as a raw
// message, since bv_signal/bv_on_off send a string ("high"/"low")
// while actuate_valve sends a bool.
type rawCommand struct {
	Command string          `json:"command"`
	Valve   string          `json:"valve"`
	State   json.RawMessage `json:"state"`
	ID      int             `json:"id"`
	Angle   float64         `json:"angle"`
}

// Parse decodes one websocket text frame into a Command.
func Parse(data []byte) (Command, error) {
	var raw rawCommand
	if err := json.Unmarshal(data, &raw); err != nil {
		return Command{}, err
	}

	cmd := Command{Command: raw.Command, Valve: raw.Valve, ID: raw.ID, Angle: raw.Angle}

	if len(raw.State) > 0 {
		var b bool
		if err := json.Unmarshal(raw.State, &b); err == nil {
			cmd.State = &b
		} else {
			var s string
			if err := json.Unmarshal(raw.State, &s); err == nil {
				cmd.LineState = s
			}
		}
	}

	return cmd, nil
}

// Response is the outgoing frame, discriminated by the "type" field.
type Response struct {
	Type string `json:"type"`

	Message           string             `json:"message,omitempty"`
	ID                int                `json:"id,omitempty"`
	Continuity        *bool              `json:"continuity,omitempty"`
	Actuated          *bool              `json:"actuated,omitempty"`
	Angle             *float64           `json:"angle,omitempty"`
	PulseWidthUS      *int               `json:"pulse_width_us,omitempty"`
	TimestampMS       int64              `json:"timestamp_ms,omitempty"`
	Valid             *bool              `json:"valid,omitempty"`
	Adc1              []ChannelReading   `json:"adc1,omitempty"`
	Adc2              []ChannelReading   `json:"adc2,omitempty"`
}

// ChannelReading is one ADC channel's streamed value (spec.md §6).
type ChannelReading struct {
	Raw    int16    `json:"raw"`
	Voltage float32 `json:"voltage"`
	Scaled  *float32 `json:"scaled"`
}

// Response type tags (spec.md §6).
const (
	TypeSuccess           = "success"
	TypeError             = "error"
	TypeAdcData           = "adc_data"
	TypeIgniterContinuity = "igniter_continuity"
	TypeValveState        = "valve_state"
	TypeMavState          = "mav_state"
)

func Success() Response { return Response{Type: TypeSuccess} }
func Error() Response   { return Response{Type: TypeError} }
