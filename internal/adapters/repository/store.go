// Package repository persists per-gauge display preferences.
package repository

import (
	"context"
	"strings"
	"time"

	"github.com/okian/chargegauge/internal/domain/gauge"
	"github.com/okian/chargegauge/internal/domain/model"
)

// Entry is one persisted preference row.
type Entry struct {
	Gauge     string            `json:"gauge"`
	Prefs     model.Preferences `json:"prefs"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Store provides read/write access to gauge preferences. Load reports
// found=false with a nil error for gauges that were never saved.
type Store interface {
	gauge.PreferenceStore

	// Get returns the stored row for a gauge.
	// Returns ErrNotFound if nothing was saved for it.
	Get(ctx context.Context, name string) (Entry, error)

	// List returns every stored row ordered by gauge name.
	List(ctx context.Context) ([]Entry, error)

	// Delete forgets a gauge's preferences. Deleting an unknown gauge is not an error.
	Delete(ctx context.Context, name string) error

	// Close releases the store. Further calls return ErrClosed.
	Close() error
}

func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidGauge
	}
	return nil
}
