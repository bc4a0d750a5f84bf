// Package config holds configuration for both the fill-station ground
// program and the flight-computer firmware: compiled-in defaults, which
// the fill station overrides from environment variables (Load) and a
// hardware.yaml registry (LoadHardwareRegistry).
package config

import (
	"fmt"
)

// Config holds all fill-station configuration.
type Config struct {
	Server   ServerConfig
	Hardware HardwareConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	CORSOrigins []string
}

// HardwareConfig points at the registry describing ADC channels and
// actuator wiring (see HardwareRegistry).
type HardwareConfig struct {
	RegistryPath string // path to hardware.yaml
}

type LoggingConfig struct {
	Level      string // "debug", "info", "warn", "error"
	Dir        string // directory for rolling tracing logs
	CSVDir     string // directory for CSV telemetry logs
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// FlightConfig holds the flight computer's device wiring: I2C bus
// names/addresses for each sensor, the FRAM's SPI port, the radio's
// serial device, and the three discrete GPIO input lines (spec.md
// §3/§4.1, grounded on the original source's fsw/src/main.rs
// peripheral init).
type FlightConfig struct {
	I2CBus string // shared sensor bus, e.g. "/dev/i2c-1"

	AltimeterAddr    uint16
	IMUAddr          uint16
	MagnetometerAddr uint16
	GPSAddr          uint16
	SeaLevelPa       float32

	FramSPIPort string // e.g. "/dev/spidev0.0"

	RadioDevice string // e.g. "/dev/ttyUSB0"

	KeyArmedLine  string // GPIO pin name
	UmbilicalLine string // GPIO pin name
	LaunchCmdLine string // GPIO pin name
	StatusLEDLine string // GPIO pin name, heartbeat indicator

	ArmingAltitude     float32
	MainDeployAltitude float32
}

// DefaultFlightConfig matches the wiring spec.md §8 scenario S1 and
// the original source's fsw/src/main.rs peripheral choices use as
// their nominal deployment.
func DefaultFlightConfig() *FlightConfig {
	return &FlightConfig{
		I2CBus:             "/dev/i2c-1",
		AltimeterAddr:      0x77,
		IMUAddr:            0x68,
		MagnetometerAddr:   0x0C,
		GPSAddr:            0x42,
		SeaLevelPa:         101325,
		FramSPIPort:        "/dev/spidev0.0",
		RadioDevice:        "/dev/ttyUSB0",
		KeyArmedLine:       "GPIO4",
		UmbilicalLine:      "GPIO14",
		LaunchCmdLine:      "GPIO15",
		StatusLEDLine:      "GPIO25",
		ArmingAltitude:     100,
		MainDeployAltitude: 500,
	}
}

// Default returns a Config with sensible defaults matching spec.md §6.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 9000,
			CORSOrigins: []string{
				"http://localhost:5173",
				"http://localhost:3000",
			},
		},
		Hardware: HardwareConfig{
			RegistryPath: "./data/config/hardware.yaml",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Dir:        "/tmp/fill-station/logs",
			CSVDir:     "/tmp/data",
			MaxSizeMB:  10,
			MaxBackups: 10,
			MaxAgeDays: 30,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}

// ServerAddr returns the server address as host:port.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
