package simulator

import "time"

// Config holds configuration for a replay run.
type Config struct {
	BaseURL string        // Base URL of the daemon
	Script  string        // TOML script path; empty replays the built-in script
	Job     string        // Job to select before replaying; empty uses the script's job
	Step    time.Duration // Timeline time between two frames
	Speed   float64       // Wall-clock speed; 0 posts frames as fast as possible
	Timeout time.Duration // HTTP request timeout
	Retries int           // Attempts per frame on backpressure
	LogFile string        // Log file for the run output
	Verbose bool          // Enable verbose logging
	Board   bool          // Print the board after the replay
}

// AckResponse represents the response from frame submission
type AckResponse struct {
	Status    string `json:"status"`
	FrameID   string `json:"frame_id"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds replay statistics
type Stats struct {
	FramesSent   int
	Accepted     int
	Duplicate    int
	Backpressure int
	Failed       int
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
}
