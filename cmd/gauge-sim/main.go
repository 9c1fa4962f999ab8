package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/chargegauge/internal/simulator"
)

// Default configuration constants.
const (
	defaultStep    = 100 * time.Millisecond
	defaultSpeed   = 1.0
	defaultRetries = 5
	defaultTimeout = 5 * time.Second
	defaultRunTime = 30 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the daemon")
		script  = flag.String("script", "", "TOML timeline script (default: built-in Black Mage opener)")
		job     = flag.String("job", "", "Job to select before replaying (default: the script's job)")
		step    = flag.Duration("step", defaultStep, "Timeline time between frames")
		speed   = flag.Float64("speed", defaultSpeed, "Wall-clock speed, 0 for as fast as possible")
		retries = flag.Int("retries", defaultRetries, "Attempts per frame on backpressure")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		board   = flag.Bool("board", false, "Print the gauge board after the replay")
		logFile = flag.String("log", "", "Log file for the run (default: sim_log_TIMESTAMP.log)")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulator.ShowHelp()
		return
	}

	// Setup logging
	closeLog, err := simulator.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closeLog() }()

	// Create context with timeout, canceled on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTime)
	defer cancel()

	config := &simulator.Config{
		BaseURL: *baseURL,
		Script:  *script,
		Job:     *job,
		Step:    *step,
		Speed:   *speed,
		Timeout: *timeout,
		Retries: *retries,
		LogFile: *logFile,
		Verbose: *verbose,
		Board:   *board,
	}

	// Run the replay
	if _, err := simulator.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Replay failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
