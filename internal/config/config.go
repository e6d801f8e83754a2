// Package config provides configuration for the go-mybuddy node.
package config

import (
	"os"
	"strconv"
	"time"
)

// Defaults for the MyBuddy 280 serial link and the node's network surface.
const (
	DefaultSerialPort      = "/dev/ttyAMA0"
	DefaultBaudRate        = 115200
	DefaultListenAddr      = ":8280"
	DefaultTelemetryPeriod = 500 * time.Millisecond
	DefaultLogLevel        = "info"
)

// Config holds everything the node needs at construction time.
// It is passed explicitly; nothing reads package-level state after startup.
type Config struct {
	SerialPort      string
	BaudRate        int
	ListenAddr      string
	TelemetryPeriod time.Duration
	LogLevel        string
}

// FromEnv builds a Config from environment variables, falling back to
// defaults. Recognized variables: MYBUDDY_PORT, MYBUDDY_BAUD,
// MYBUDDY_LISTEN, MYBUDDY_TELEMETRY_PERIOD, MYBUDDY_LOG_LEVEL.
func FromEnv() Config {
	return Config{
		SerialPort:      envString("MYBUDDY_PORT", DefaultSerialPort),
		BaudRate:        envInt("MYBUDDY_BAUD", DefaultBaudRate),
		ListenAddr:      envString("MYBUDDY_LISTEN", DefaultListenAddr),
		TelemetryPeriod: envDuration("MYBUDDY_TELEMETRY_PERIOD", DefaultTelemetryPeriod),
		LogLevel:        envString("MYBUDDY_LOG_LEVEL", DefaultLogLevel),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
