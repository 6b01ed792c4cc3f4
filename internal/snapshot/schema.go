// Package snapshot exports the whole board to YAML and imports it back
// through the rows contract.
package snapshot

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Version of the snapshot file format.
const Version = 1

// Snapshot is the top-level YAML document.
type Snapshot struct {
	Version    int           `yaml:"version"`
	ExportedAt time.Time     `yaml:"exported_at,omitempty"`
	Phases     []PhaseRow    `yaml:"phases"`
	Categories []CategoryRow `yaml:"categories,omitempty"`
	Tasks      []TaskRow     `yaml:"tasks"`
}

// PhaseRow is a phase. ID only links categories inside the file; imported
// rows get fresh ids.
type PhaseRow struct {
	ID        int64  `yaml:"id"`
	Name      string `yaml:"name"`
	SortOrder int    `yaml:"sort_order"`
}

// CategoryRow is a category of the phase with id PhaseID in the same file.
type CategoryRow struct {
	ID        int64  `yaml:"id"`
	Name      string `yaml:"name"`
	PhaseID   int64  `yaml:"phase_id"`
	SortOrder int    `yaml:"sort_order"`
}

// TaskRow is a task. Dates are YYYY-MM-DD or empty.
type TaskRow struct {
	Phase       string  `yaml:"phase"`
	Category    string  `yaml:"category,omitempty"`
	Name        string  `yaml:"name"`
	Owner       string  `yaml:"owner"`
	Status      string  `yaml:"status"`
	Priority    string  `yaml:"priority"`
	Effort      string  `yaml:"effort,omitempty"`
	Note        string  `yaml:"note,omitempty"`
	StartDate   string  `yaml:"start_date,omitempty"`
	EndDate     string  `yaml:"end_date,omitempty"`
	IndentLevel int     `yaml:"indent_level,omitempty"`
	SortOrder   float64 `yaml:"sort_order"`
}

// Load reads and parses a snapshot file. Unknown keys are rejected.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a snapshot document.
func Parse(data []byte) (*Snapshot, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Snapshot
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return &s, nil
}
