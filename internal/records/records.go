// Package records keeps the best run across game sessions.
package records

import (
	"fmt"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	recordsObject   = "records"
	recordsProperty = "best"
)

// Records is the persisted summary of past runs.
type Records struct {
	BestDay   int       `yaml:"bestDay"`
	Runs      int       `yaml:"runs"`
	LastRunID string    `yaml:"lastRunId"`
	LastDay   int       `yaml:"lastDay"`
	UpdatedAt time.Time `yaml:"updatedAt"`
}

// Store loads and saves Records. A Store without storage keeps records in
// memory only.
type Store struct {
	data    *gdata.Manager
	records Records
}

// Open opens the records store for appName. If the platform storage cannot
// be opened the store still works in memory and the error is returned
// alongside it.
func Open(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return NewStore(nil), fmt.Errorf("opening save data: %w", err)
	}
	s := NewStore(m)
	if err := s.Load(); err != nil {
		return s, err
	}
	return s, nil
}

// NewStore wraps an already opened gdata manager, which may be nil.
func NewStore(m *gdata.Manager) *Store {
	return &Store{data: m}
}

// Load reads the saved records, if any.
func (s *Store) Load() error {
	if s.data == nil || !s.data.ObjectPropExists(recordsObject, recordsProperty) {
		return nil
	}

	raw, err := s.data.LoadObjectProp(recordsObject, recordsProperty)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	var loaded Records
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal records: %w", err)
	}
	s.records = loaded
	return nil
}

// Record adds a finished run and saves. It returns true if the run set a new best day.
func (s *Store) Record(runID string, day int) (bool, error) {
	s.records.Runs++
	s.records.LastRunID = runID
	s.records.LastDay = day
	s.records.UpdatedAt = time.Now().UTC()

	best := day > s.records.BestDay
	if best {
		s.records.BestDay = day
	}
	return best, s.Save()
}

// Save writes the records to storage.
func (s *Store) Save() error {
	if s.data == nil {
		return nil
	}

	raw, err := yaml.Marshal(&s.records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	if err := s.data.SaveObjectProp(recordsObject, recordsProperty, raw); err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}
	return nil
}

// Records returns a copy of the current records.
func (s *Store) Records() Records {
	return s.records
}
