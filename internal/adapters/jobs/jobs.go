// Package jobs loads the per-job charge gauge tables from TOML.
package jobs

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/okian/chargegauge/internal/domain/model"
)

//go:embed default.toml
var defaultTables []byte

// Gauge is one named gauge definition of a job.
type Gauge struct {
	Name       string           `json:"name"`
	Definition model.Definition `json:"definition"`
}

// Job is the ordered list of gauges shown for one job.
type Job struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Gauges []Gauge `json:"gauges"`
}

// Table maps job ids to their gauge lists.
type Table struct {
	jobs map[string]Job
}

type tomlFile struct {
	Jobs []tomlJob `toml:"job"`
}

type tomlJob struct {
	ID     string      `toml:"id"`
	Name   string      `toml:"name"`
	Gauges []tomlGauge `toml:"gauge"`
}

type tomlGauge struct {
	Name          string           `toml:"name"`
	Type          model.VisualType `toml:"type"`
	BarColor      model.Color      `toml:"bar_color"`
	SameColor     bool             `toml:"same_color"`
	NoSoundOnFull bool             `toml:"no_sound_on_full"`
	Capacity      int              `toml:"capacity"`
	Parts         []model.Part     `toml:"parts"`
}

// Parse decodes a TOML job table. Definitions are not validated here; a
// gauge that fails validation is rejected when it is built.
func Parse(data []byte) (*Table, error) {
	var tf tomlFile
	md, err := toml.Decode(string(data), &tf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrParse, strings.Join(keys, ", "))
	}

	t := &Table{jobs: make(map[string]Job, len(tf.Jobs))}
	for _, tj := range tf.Jobs {
		id := normalizeID(tj.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: job without id", ErrParse)
		}
		if _, dup := t.jobs[id]; dup {
			return nil, fmt.Errorf("%w: duplicate job %s", ErrParse, id)
		}

		job := Job{ID: id, Name: tj.Name, Gauges: make([]Gauge, 0, len(tj.Gauges))}
		seen := make(map[string]bool, len(tj.Gauges))
		for _, tg := range tj.Gauges {
			if tg.Name == "" {
				return nil, fmt.Errorf("%w: job %s has a gauge without name", ErrParse, id)
			}
			if seen[tg.Name] {
				return nil, fmt.Errorf("%w: job %s has duplicate gauge %q", ErrParse, id, tg.Name)
			}
			seen[tg.Name] = true
			job.Gauges = append(job.Gauges, Gauge{
				Name: tg.Name,
				Definition: model.Definition{
					Parts:         tg.Parts,
					Type:          tg.Type,
					BarColor:      tg.BarColor,
					SameColor:     tg.SameColor,
					NoSoundOnFull: tg.NoSoundOnFull,
					Capacity:      tg.Capacity,
				},
			})
		}
		t.jobs[id] = job
	}
	return t, nil
}

// LoadFile parses the TOML job table at path.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job table: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Default returns the built-in tables.
func Default() (*Table, error) {
	return Parse(defaultTables)
}

// Load returns the built-in tables with the jobs in path layered on top.
// An empty path yields the built-in tables alone.
func Load(path string) (*Table, error) {
	base, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return base, nil
	}
	override, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return base.Merge(override), nil
}

// Merge returns a table holding t's jobs replaced by other's where ids match.
func (t *Table) Merge(other *Table) *Table {
	out := &Table{jobs: make(map[string]Job, len(t.jobs)+len(other.jobs))}
	for id, j := range t.jobs {
		out.jobs[id] = j
	}
	for id, j := range other.jobs {
		out.jobs[id] = j
	}
	return out
}

// Job returns the gauges configured for id, matched case-insensitively.
// Definitions are cloned so callers may keep them.
func (t *Table) Job(id string) (Job, error) {
	j, ok := t.jobs[normalizeID(id)]
	if !ok {
		return Job{}, fmt.Errorf("%w: %q", ErrUnknownJob, id)
	}
	out := j
	out.Gauges = make([]Gauge, len(j.Gauges))
	for i, g := range j.Gauges {
		out.Gauges[i] = Gauge{Name: g.Name, Definition: g.Definition.Clone()}
	}
	return out, nil
}

// IDs returns the known job ids in sorted order.
func (t *Table) IDs() []string {
	ids := make([]string, 0, len(t.jobs))
	for id := range t.jobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
