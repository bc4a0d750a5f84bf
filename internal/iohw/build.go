package iohw

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/cornellrocketryteam/control-core/internal/config"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"
)

// Build wires a Hardware (plus the two ADS1015 ADCs) from a hardware
// registry, grounded on the periph.io host.Init/gpioreg.ByName/
// i2creg.Open call shape shown across the library's cmd/*/main.go
// examples. It must be called once at process start, before any
// concurrent access to the returned handles.
func Build(reg *config.HardwareRegistry, logger *log.Logger) (*Hardware, *Ads1015, *Ads1015, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, nil, fmt.Errorf("iohw: periph host init: %w", err)
	}

	solenoids := make(map[string]*SolenoidValve, len(reg.Solenoids))
	for _, sc := range reg.Solenoids {
		control, err := pinOut(sc.ControlLine)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("iohw: solenoid %s: %w", sc.Name, err)
		}
		signal, err := pinIn(sc.SignalLine)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("iohw: solenoid %s: %w", sc.Name, err)
		}
		sv, err := NewSolenoidValve(sc.Name, control, signal, sc.Pull, sc.InvertedRead)
		if err != nil {
			return nil, nil, nil, err
		}
		solenoids[sc.Name] = sv
	}

	bvOnOff, err := pinOut(reg.BallValve.OnOffLine)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("iohw: ball valve: %w", err)
	}
	bvSignal, err := pinOut(reg.BallValve.SignalLine)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("iohw: ball valve: %w", err)
	}
	bv, err := NewBallValve(bvOnOff, bvSignal)
	if err != nil {
		return nil, nil, nil, err
	}

	mav, err := NewMav(sysfsPWM(reg.Mav.PWMChannel), reg.Mav)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("iohw: mav: %w", err)
	}

	igniters := make(map[string]*Igniter, len(reg.Igniters))
	for _, ic := range reg.Igniters {
		continuity, err := pinIn(ic.ContinuityLine)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("iohw: igniter %s: %w", ic.Name, err)
		}
		signal, err := pinOut(ic.SignalLine)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("iohw: igniter %s: %w", ic.Name, err)
		}
		ig, err := NewIgniter(ic.Name, continuity, signal)
		if err != nil {
			return nil, nil, nil, err
		}
		igniters[ic.Name] = ig
	}

	hw := NewHardware(solenoids, bv, mav, igniters, logger)

	adc1Bus, err := i2creg.Open(reg.Adc1.I2CBus)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("iohw: adc1 bus %s: %w", reg.Adc1.I2CBus, err)
	}
	adc2Bus, err := i2creg.Open(reg.Adc2.I2CBus)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("iohw: adc2 bus %s: %w", reg.Adc2.I2CBus, err)
	}

	return hw, NewAds1015(adc1Bus, reg.Adc1.I2CAddress), NewAds1015(adc2Bus, reg.Adc2.I2CAddress), nil
}

// BuildFram opens the SPI FRAM scratchpad at the given port name
// (spec.md §4.1, §6).
func BuildFram(spiPort string) (*Fram, error) {
	port, err := spireg.Open(spiPort)
	if err != nil {
		return nil, fmt.Errorf("iohw: fram spi port %s: %w", spiPort, err)
	}
	conn, err := port.Connect(physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("iohw: fram spi connect: %w", err)
	}
	return NewFram(conn), nil
}

func pinOut(name string) (gpio.PinOut, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio pin %q not found", name)
	}
	return p, nil
}

func pinIn(name string) (gpio.PinIn, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio pin %q not found", name)
	}
	if err := p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("gpio pin %q: set input: %w", name, err)
	}
	return p, nil
}

// sysfsPWM adapts a named PWM channel's sysfs export/period/duty_cycle
// files into the minimal PWMPin surface Mav needs. The channel name is
// resolved against a pwmchip's already-exported pwm line by the
// deployment's udev rules; this only performs the three file writes
// the original source's driver makes per call.
func sysfsPWM(channel string) PWMPin {
	base := fmt.Sprintf("/sys/class/pwm/%s", channel)
	return PWMPin{
		SetDutyNS:   func(ns uint32) error { return writeSysfsAttr(base+"/duty_cycle", ns) },
		SetPeriodNS: func(ns uint32) error { return writeSysfsAttr(base+"/period", ns) },
		Enable:      func(enabled bool) error { return writeSysfsBool(base+"/enable", enabled) },
	}
}

func writeSysfsAttr(path string, value uint32) error {
	return os.WriteFile(path, []byte(strconv.FormatUint(uint64(value), 10)), 0644)
}

func writeSysfsBool(path string, enabled bool) error {
	v := "0"
	if enabled {
		v = "1"
	}
	return os.WriteFile(path, []byte(v), 0644)
}
