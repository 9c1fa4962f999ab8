package simulator

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/chargegauge/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
// The returned function closes the file.
func SetupLogging(logFile string, verbose bool) (func() error, error) {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "sim_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	level := "info"
	if verbose {
		level = "debug"
	}
	if err := logger.Init(
		logger.WithWriter(io.MultiWriter(os.Stdout, file)),
		logger.WithLevel(level),
	); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return file.Close, nil
}

// ShowHelp prints usage information for the simulator.
func ShowHelp() {
	os.Stdout.WriteString(`Charge Gauge Simulator
======================

Replays a scripted telemetry timeline against a running chargegauge daemon.

Usage:
  go run ./cmd/gauge-sim [options]

Options:
  -url string
        Base URL of the daemon (default "http://localhost:9080")
  -script string
        TOML timeline script (default: built-in Black Mage opener)
  -job string
        Job to select before replaying (default: the script's job)
  -step duration
        Timeline time between frames (default 100ms)
  -speed float
        Wall-clock speed, 0 for as fast as possible (default 1)
  -retries int
        Attempts per frame on backpressure (default 5)
  -timeout duration
        HTTP request timeout (default 5s)
  -board
        Print the gauge board after the replay
  -log string
        Log file for the run (default: sim_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Replay the built-in opener in real time
  go run ./cmd/gauge-sim -board

  # Replay a custom script ten times faster
  go run ./cmd/gauge-sim -script rotation.toml -speed 10
`)
}
