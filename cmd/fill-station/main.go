package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/cornellrocketryteam/control-core/internal/adcmonitor"
	"github.com/cornellrocketryteam/control-core/internal/command"
	"github.com/cornellrocketryteam/control-core/internal/config"
	"github.com/cornellrocketryteam/control-core/internal/csvlog"
	"github.com/cornellrocketryteam/control-core/internal/fillserver"
	"github.com/cornellrocketryteam/control-core/internal/iohw"
	"github.com/cornellrocketryteam/control-core/internal/logging"
	"github.com/cornellrocketryteam/control-core/internal/safety"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Logging)

	registry, err := config.LoadHardwareRegistry(cfg.Hardware.RegistryPath)
	if err != nil {
		logger.Printf("hardware registry %s unreadable, using defaults: %v", cfg.Hardware.RegistryPath, err)
		registry = config.DefaultHardwareRegistry()
	}

	hw, adc1, adc2, err := iohw.Build(registry, logger)
	if err != nil {
		log.Fatalf("hardware init: %v", err)
	}

	readings := iohw.NewAdcReadings()
	monitor := adcmonitor.New(adc1, adc2, registry.Adc1, registry.Adc2, readings, logger)

	csvLogger, err := csvlog.Open(csvLogPath(cfg), hw, readings, logger)
	if err != nil {
		log.Fatalf("csv log open: %v", err)
	}
	defer csvLogger.Close()

	var activeClients atomic.Int64
	dispatcher := command.NewDispatcher(hw, readings, logger)
	safetyMonitor := safety.New(hw, &activeClients, logger)

	srv := fillserver.New(cfg, dispatcher, readings, &activeClients, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go handleShutdown(cancel)

	go monitor.Run(ctx)
	go csvLogger.Run(ctx)
	go safetyMonitor.Run(ctx)

	if err := srv.Start(); err != nil {
		log.Fatalf("fill-station server error: %v", err)
	}
}

func csvLogPath(cfg *config.Config) string {
	if err := os.MkdirAll(cfg.Logging.CSVDir, 0755); err != nil {
		log.Fatalf("csv log dir %s: %v", cfg.Logging.CSVDir, err)
	}
	return cfg.Logging.CSVDir + "/fill-station.csv"
}

func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Println("shutting down fill-station gracefully")
	cancel()
}
