// Package simulator replays a scripted telemetry timeline against a running
// chargegauge daemon over HTTP.
package simulator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/okian/chargegauge/internal/domain/trigger"
	"github.com/okian/chargegauge/internal/telemetry"
	"github.com/okian/chargegauge/pkg/logger"
)

// Runner configuration constants.
const (
	defaultStep          = 100 * time.Millisecond
	defaultTimeout       = 5 * time.Second
	defaultRetries       = 5
	retryBackoff         = 50 * time.Millisecond
	percentageMultiplier = 100
)

type submitResult int

const (
	resultAccepted submitResult = iota
	resultDuplicate
	resultBackpressure
	resultFailed
)

// ErrServiceUnhealthy is returned when the daemon does not answer /healthz.
var ErrServiceUnhealthy = errors.New("service unhealthy")

// Run executes a complete replay and returns its statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	applyDefaults(config)
	stats := &Stats{
		StartTime: time.Now(),
	}
	log := logger.Get().Named("simulator")

	log.Info(ctx, "starting charge gauge replay",
		logger.String("baseURL", config.BaseURL),
		logger.String("script", config.Script),
		logger.Duration("step", config.Step),
		logger.Float64("speed", config.Speed))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Build the timeline
	script, err := loadScript(config)
	if err != nil {
		return stats, err
	}
	timeline, err := script.Timeline()
	if err != nil {
		return stats, fmt.Errorf("build timeline: %w", err)
	}

	// Step 3: Select the job
	job := config.Job
	if job == "" {
		job = script.Job
	}
	if job != "" {
		if err := selectJob(ctx, client, config, job); err != nil {
			return stats, fmt.Errorf("select job %s: %w", job, err)
		}
	}

	// Step 4: Replay frames in order
	if err := replay(ctx, client, config, timeline, stats); err != nil {
		return stats, fmt.Errorf("replay: %w", err)
	}

	// Step 5: Show the board
	if config.Board {
		board, err := fetchBoard(ctx, client, config)
		if err != nil {
			log.Warn(ctx, "failed to fetch board", logger.Error(err))
		} else {
			os.Stdout.WriteString(board)
		}
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(ctx, stats)
	log.Info(ctx, "replay completed successfully")
	return stats, nil
}

func applyDefaults(config *Config) {
	if config.Step <= 0 {
		config.Step = defaultStep
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if config.Retries <= 0 {
		config.Retries = defaultRetries
	}
	if config.Speed < 0 {
		config.Speed = 0
	}
}

func loadScript(config *Config) (*telemetry.Script, error) {
	if config.Script == "" {
		return telemetry.DefaultScript(), nil
	}
	s, err := telemetry.LoadScript(config.Script)
	if err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}
	return s, nil
}

// replay posts one frame per step from t=0 until one step past the end of
// the timeline, so the final frame shows every gauge idle.
func replay(ctx context.Context, client *HTTPClient, config *Config, tl *telemetry.Timeline, stats *Stats) error {
	log := logger.Get().Named("simulator")
	runID := uuid.NewString()
	step := config.Step.Seconds()
	frames := int(tl.End()/step) + 2

	var pace <-chan time.Time
	if config.Speed > 0 {
		ticker := time.NewTicker(time.Duration(float64(config.Step) / config.Speed))
		defer ticker.Stop()
		pace = ticker.C
	}

	url := config.BaseURL + "/frames"
	for i := 0; i < frames; i++ {
		if pace != nil && i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-pace:
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		frame := tl.FrameAt(float64(i) * step)
		frame.ID = fmt.Sprintf("%s-%06d", runID, i)

		stats.FramesSent++
		switch submitFrame(ctx, client, url, frame, config.Retries) {
		case resultAccepted:
			stats.Accepted++
		case resultDuplicate:
			stats.Duplicate++
		case resultBackpressure:
			stats.Backpressure++
		case resultFailed:
			stats.Failed++
		}

		if config.Verbose {
			log.Debug(ctx, "frame posted",
				logger.String("frameID", frame.ID),
				logger.Int("effects", len(frame.Effects)),
				logger.Int("recasts", len(frame.Recasts)))
		}
	}
	return nil
}

// submitFrame posts a frame, retrying with the same id on backpressure.
func submitFrame(ctx context.Context, client *HTTPClient, url string, frame trigger.Frame, retries int) submitResult {
	for attempt := 1; ; attempt++ {
		resp, err := client.Post(ctx, url, frame)
		if err != nil {
			return resultFailed
		}
		body, err := readResponseBody(resp)
		if err != nil {
			return resultFailed
		}

		switch resp.StatusCode {
		case http.StatusAccepted:
			return resultAccepted
		case http.StatusOK:
			var ack AckResponse
			if err := json.Unmarshal(body, &ack); err == nil && !ack.Duplicate {
				return resultAccepted
			}
			return resultDuplicate
		case http.StatusTooManyRequests:
			if attempt >= retries {
				return resultBackpressure
			}
			select {
			case <-ctx.Done():
				return resultFailed
			case <-time.After(time.Duration(attempt) * retryBackoff):
			}
		default:
			return resultFailed
		}
	}
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("read health response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrServiceUnhealthy, resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

func selectJob(ctx context.Context, client *HTTPClient, config *Config, job string) error {
	resp, err := client.Post(ctx, config.BaseURL+"/job", map[string]string{"id": job})
	if err != nil {
		return err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	logger.Get().Info(ctx, "job selected", logger.String("job", job))
	return nil
}

func fetchBoard(ctx context.Context, client *HTTPClient, config *Config) (string, error) {
	resp, err := client.Get(ctx, config.BaseURL+"/board")
	if err != nil {
		return "", err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	return string(body), nil
}

// displayFinalStats logs the final replay statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var acceptRate, framesPerSecond float64

	if stats.FramesSent > 0 {
		acceptRate = float64(stats.Accepted) / float64(stats.FramesSent) * percentageMultiplier
	}

	if stats.Duration > 0 {
		framesPerSecond = float64(stats.FramesSent) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("framesSent", stats.FramesSent),
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("backpressure", stats.Backpressure),
		logger.Int("failed", stats.Failed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("framesPerSecond", framesPerSecond))
}
