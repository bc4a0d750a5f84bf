// Command fsw runs the flight computer's 10Hz sensor-fusion/FSM loop
// (spec.md §4.1), grounded on the original source's fsw/src/main.rs
// peripheral init and flight-loop drive shape, ported from the
// original's single-core async executor onto a plain ticker goroutine.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cornellrocketryteam/control-core/internal/config"
	"github.com/cornellrocketryteam/control-core/internal/flight"
	"github.com/cornellrocketryteam/control-core/internal/iohw"
	"github.com/cornellrocketryteam/control-core/internal/logging"
	"github.com/cornellrocketryteam/control-core/internal/radio"
	"github.com/cornellrocketryteam/control-core/internal/sensors"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"
)

func main() {
	cfg := config.DefaultFlightConfig()
	flightCfg := flight.Config{
		ArmingAltitude:     cfg.ArmingAltitude,
		MainDeployAltitude: cfg.MainDeployAltitude,
	}

	logger := logging.NewFlightLogger(config.LoggingConfig{
		Dir: "/var/log/fsw", MaxSizeMB: 10, MaxBackups: 10, MaxAgeDays: 30,
	})

	if _, err := host.Init(); err != nil {
		log.Fatalf("periph host init: %v", err)
	}

	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		log.Fatalf("sensor i2c bus %s: %v", cfg.I2CBus, err)
	}

	reader := &sensors.Reader{
		Altimeter:    sensors.NewAltimeter(bus, cfg.AltimeterAddr, cfg.SeaLevelPa),
		IMU:          sensors.NewIMU(bus, cfg.IMUAddr),
		Magnetometer: sensors.NewMagnetometer(bus, cfg.MagnetometerAddr),
		GPS:          sensors.NewGPS(bus, cfg.GPSAddr),
		Logger:       logger,
	}
	if err := reader.Init(); err != nil {
		log.Fatalf("sensor init: %v", err)
	}

	fram, err := iohw.BuildFram(cfg.FramSPIPort)
	if err != nil {
		log.Fatalf("fram init: %v", err)
	}

	r, err := radio.Open(cfg.RadioDevice)
	if err != nil {
		log.Fatalf("radio init: %v", err)
	}

	hwReg := config.DefaultHardwareRegistry()
	hw, _, _, err := iohw.Build(hwReg, logger)
	if err != nil {
		log.Fatalf("actuator hardware init: %v", err)
	}
	actuators := &iohw.FlightActuators{HW: hw}

	inputs := &iohw.DiscreteInputs{
		KeyArmedPin:  mustPinIn(cfg.KeyArmedLine),
		UmbilicalPin: mustPinIn(cfg.UmbilicalLine),
		LaunchPin:    mustPinIn(cfg.LaunchCmdLine),
	}
	led := &iohw.StatusLED{Pin: mustPinOut(cfg.StatusLEDLine)}
	sdLogger := &iohw.SDLogger{MountPath: "/mnt/sdcard"}

	state := flight.NewState()
	fsm := flight.New(state, flightCfg, logger, reader, actuators, r, fram, inputs)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(flight.CyclePeriod)
	defer ticker.Stop()

	logger.Println("flight computer entering main loop")
	for {
		select {
		case <-stop:
			logger.Println("shutting down flight computer")
			sdLogger.Shutdown()
			return
		case <-ticker.C:
			state.SDLoggingEnabled = sdLogger.Available()
			fsm.Step()
			if err := led.Toggle(); err != nil {
				logger.Printf("status led toggle failed: %v", err)
			}
		}
	}
}

func mustPinIn(name string) gpio.PinIn {
	p := gpioreg.ByName(name)
	if p == nil {
		log.Fatalf("gpio pin %q not found", name)
	}
	if err := p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		log.Fatalf("gpio pin %q: set input: %v", name, err)
	}
	return p
}

func mustPinOut(name string) gpio.PinOut {
	p := gpioreg.ByName(name)
	if p == nil {
		log.Fatalf("gpio pin %q not found", name)
	}
	return p
}
