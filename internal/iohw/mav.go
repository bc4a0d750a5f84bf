package iohw

import (
	"fmt"

	"github.com/cornellrocketryteam/control-core/internal/config"
)

// PWMPin is the minimal PWM control surface the MAV servo needs. A
// sysfs-style pwmchip driver (as the original source's Mav wires)
// implements this over two file writes per call.
type PWMPin struct {
	SetDutyNS   func(ns uint32) error
	SetPeriodNS func(ns uint32) error
	Enable      func(enabled bool) error
}

// Mav is the mechanically-actuated valve's servo, driven by a PWM
// pulse width mapped linearly onto a 0-90 degree angle range, grounded
// on the original source's Mav component (330Hz/3030us period, pulse
// widths configurable via hardware.yaml).
type Mav struct {
	pwm PWMPin
	cfg config.MavConfig

	currentUS int
}

// NewMav configures the PWM channel's period and drives it to the
// registry's neutral pulse width.
func NewMav(pwm PWMPin, cfg config.MavConfig) (*Mav, error) {
	if err := pwm.Enable(false); err != nil {
		return nil, fmt.Errorf("mav: disable before config: %w", err)
	}
	if err := pwm.SetPeriodNS(uint32(cfg.PeriodUS) * 1000); err != nil {
		return nil, fmt.Errorf("mav: set period: %w", err)
	}
	m := &Mav{pwm: pwm, cfg: cfg}
	if err := m.setPulseUS(cfg.NeutralUS); err != nil {
		return nil, err
	}
	if err := pwm.Enable(true); err != nil {
		return nil, fmt.Errorf("mav: enable: %w", err)
	}
	return m, nil
}

// setPulseUS writes a pulse width to the PWM channel. A width outside
// [MinUS, MaxUS] is rejected with an error and nothing is written, to
// protect the hardware; it is not clamped, and the rejection is not
// logged here.
func (m *Mav) setPulseUS(us int) error {
	if us < m.cfg.MinUS || us > m.cfg.MaxUS {
		return fmt.Errorf("mav: pulse width %dus out of range [%d,%d], rejected", us, m.cfg.MinUS, m.cfg.MaxUS)
	}
	if err := m.pwm.SetDutyNS(uint32(us) * 1000); err != nil {
		return fmt.Errorf("mav: set duty cycle: %w", err)
	}
	m.currentUS = us
	return nil
}

// Open drives the MAV to its fully-open pulse width.
func (m *Mav) Open() error { return m.setPulseUS(m.cfg.OpenUS) }

// Close drives the MAV to its fully-closed pulse width.
func (m *Mav) Close() error { return m.setPulseUS(m.cfg.CloseUS) }

// Neutral drives the MAV to its neutral pulse width.
func (m *Mav) Neutral() error { return m.setPulseUS(m.cfg.NeutralUS) }

// SetAngle maps the angle onto [CloseUS, OpenUS] per
// us = close_us + angle*(open_us-close_us)/90, then applies
// setPulseUS's reject-out-of-range policy.
func (m *Mav) SetAngle(angleDeg float64) error {
	us := float64(m.cfg.CloseUS) + angleDeg*float64(m.cfg.OpenUS-m.cfg.CloseUS)/90.0
	return m.setPulseUS(int(us))
}

// IsOpen reports whether the MAV's commanded pulse width equals its
// configured open value — the FSM's MavIsOpen() contract.
func (m *Mav) IsOpen() bool { return m.currentUS == m.cfg.OpenUS }

// PulseUS returns the last-commanded pulse width, for GetMavState.
func (m *Mav) PulseUS() int { return m.currentUS }

// AngleDeg inverts SetAngle's map over the device's current duty,
// clamping the result into [0, 90] (spec.md §4.7 "get_angle").
func (m *Mav) AngleDeg() float64 {
	span := float64(m.cfg.OpenUS - m.cfg.CloseUS)
	if span == 0 {
		return 0
	}
	angle := (float64(m.currentUS-m.cfg.CloseUS) / span) * 90.0
	if angle < 0 {
		angle = 0
	}
	if angle > 90 {
		angle = 90
	}
	return angle
}
