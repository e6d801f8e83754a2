// Command buddy-node bridges a MyBuddy 280 dual-arm robot to a websocket
// telemetry stream and an HTTP command endpoint.
package main

import (
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robonomics/go-mybuddy/internal/config"
	"github.com/robonomics/go-mybuddy/internal/log"
	"github.com/robonomics/go-mybuddy/pkg/mybuddy"
	"github.com/robonomics/go-mybuddy/pkg/node"
)

func main() {
	cfg := config.FromEnv()
	flag.StringVar(&cfg.SerialPort, "port", cfg.SerialPort, "Serial port of the robot controller")
	flag.IntVar(&cfg.BaudRate, "baud", cfg.BaudRate, "Serial baud rate")
	flag.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "HTTP listen address")
	flag.DurationVar(&cfg.TelemetryPeriod, "period", cfg.TelemetryPeriod, "Telemetry publish period")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.Parse()

	log.Init(cfg.LogLevel)

	n, err := node.New(cfg)
	if err != nil {
		if errors.Is(err, mybuddy.ErrDeviceUnavailable) {
			log.Error("serial port not found", "port", cfg.SerialPort, "error", err)
		} else {
			log.Error("startup failed", "error", err)
		}
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Warn("shutting down", "signal", sig.String())
		n.Shutdown()
		// A hung serial exchange can wedge shutdown; don't wait forever.
		time.Sleep(2 * time.Second)
		os.Exit(0)
	}()

	if err := n.Start(); err != nil {
		log.Error("listener stopped", "error", err)
		n.Shutdown()
		os.Exit(1)
	}
	n.Shutdown()
}
