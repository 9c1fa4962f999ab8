package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/okian/chargegauge/internal/domain/model"
)

// MemoryStore keeps preferences in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	rows   map[string]Entry
	closed bool
	opts   settings
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{rows: make(map[string]Entry), opts: defaultSettings()}
	for _, opt := range opts {
		opt(&s.opts)
	}
	return s
}

// Load implements gauge.PreferenceStore.
func (s *MemoryStore) Load(ctx context.Context, name string) (model.Preferences, bool, error) {
	e, err := s.Get(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return model.Preferences{}, false, nil
	}
	if err != nil {
		return model.Preferences{}, false, err
	}
	return e.Prefs, true, nil
}

// Save implements gauge.PreferenceStore.
func (s *MemoryStore) Save(_ context.Context, name string, p model.Preferences) error {
	if err := checkName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.rows[name] = Entry{Gauge: name, Prefs: copyPrefs(p), UpdatedAt: s.opts.now().UTC()}
	return nil
}

// Get returns the stored row for a gauge.
func (s *MemoryStore) Get(_ context.Context, name string) (Entry, error) {
	if err := checkName(name); err != nil {
		return Entry{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Entry{}, ErrClosed
	}
	e, ok := s.rows[name]
	if !ok {
		return Entry{}, ErrNotFound
	}
	e.Prefs = copyPrefs(e.Prefs)
	return e, nil
}

// List returns every stored row ordered by gauge name.
func (s *MemoryStore) List(_ context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make([]Entry, 0, len(s.rows))
	for _, e := range s.rows {
		e.Prefs = copyPrefs(e.Prefs)
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Gauge < out[j].Gauge })
	return out, nil
}

// Delete forgets a gauge's preferences.
func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.rows, name)
	return nil
}

// Close marks the store closed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func copyPrefs(p model.Preferences) model.Preferences {
	if p.NoSoundOnFull != nil {
		v := *p.NoSoundOnFull
		p.NoSoundOnFull = &v
	}
	return p
}
