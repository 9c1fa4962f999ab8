package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/chargegauge/internal/domain/model"
	"github.com/okian/chargegauge/pkg/metrics"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS gauge_prefs (
	gauge        TEXT PRIMARY KEY,
	bar_color    TEXT NOT NULL DEFAULT '',
	visual_type  TEXT NOT NULL DEFAULT '',
	no_sound     INTEGER,
	updated_at   TEXT NOT NULL
);
`

// SQLiteStore persists preferences in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	opts   settings
	closed atomic.Bool
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens a SQLite database and runs migrations.
// Use ":memory:" for a throwaway database.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{opts: defaultSettings()}
	for _, opt := range opts {
		opt(&s.opts)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", s.opts.busyTimeout.Milliseconds())); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.db = db
	return s, nil
}

// Load implements gauge.PreferenceStore.
func (s *SQLiteStore) Load(ctx context.Context, name string) (model.Preferences, bool, error) {
	e, err := s.Get(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return model.Preferences{}, false, nil
	}
	if err != nil {
		return model.Preferences{}, false, err
	}
	return e.Prefs, true, nil
}

// Save implements gauge.PreferenceStore. Saving replaces the whole row.
func (s *SQLiteStore) Save(ctx context.Context, name string, p model.Preferences) error {
	if err := checkName(name); err != nil {
		return err
	}
	if s.closed.Load() {
		return ErrClosed
	}
	defer observe("save", time.Now())

	var visual string
	if p.Type.Valid() {
		visual = p.Type.String()
	}
	var noSound sql.NullBool
	if p.NoSoundOnFull != nil {
		noSound = sql.NullBool{Bool: *p.NoSoundOnFull, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO gauge_prefs (gauge, bar_color, visual_type, no_sound, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(gauge) DO UPDATE SET
			bar_color = excluded.bar_color,
			visual_type = excluded.visual_type,
			no_sound = excluded.no_sound,
			updated_at = excluded.updated_at`,
		name, string(p.BarColor), visual, noSound, s.opts.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", name, err)
	}
	return nil
}

// Get returns the stored row for a gauge.
func (s *SQLiteStore) Get(ctx context.Context, name string) (Entry, error) {
	if err := checkName(name); err != nil {
		return Entry{}, err
	}
	if s.closed.Load() {
		return Entry{}, ErrClosed
	}
	defer observe("load", time.Now())

	row := s.db.QueryRowContext(ctx,
		`SELECT gauge, bar_color, visual_type, no_sound, updated_at FROM gauge_prefs WHERE gauge = ?`,
		name,
	)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("load %s: %w", name, err)
	}
	return e, nil
}

// List returns every stored row ordered by gauge name.
func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	defer observe("list", time.Now())

	rows, err := s.db.QueryContext(ctx,
		`SELECT gauge, bar_color, visual_type, no_sound, updated_at FROM gauge_prefs ORDER BY gauge`,
	)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete forgets a gauge's preferences.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	defer observe("delete", time.Now())

	if _, err := s.db.ExecContext(ctx, `DELETE FROM gauge_prefs WHERE gauge = ?`, name); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		e       Entry
		color   string
		visual  string
		noSound sql.NullBool
		updated string
	)
	if err := sc.Scan(&e.Gauge, &color, &visual, &noSound, &updated); err != nil {
		return Entry{}, err
	}

	e.Prefs.BarColor = model.Color(color)
	if visual != "" {
		t, err := model.ParseVisualType(visual)
		if err != nil {
			return Entry{}, err
		}
		e.Prefs.Type = t
	}
	if noSound.Valid {
		v := noSound.Bool
		e.Prefs.NoSoundOnFull = &v
	}
	ts, err := time.Parse(time.RFC3339Nano, updated)
	if err != nil {
		return Entry{}, fmt.Errorf("updated_at: %w", err)
	}
	e.UpdatedAt = ts
	return e, nil
}

func observe(op string, start time.Time) {
	metrics.RecordPrefsLatency(op, float64(time.Since(start).Microseconds())/1000)
}
