// Package queue persists the pending-post queue as a single JSON array file.
// The whole file is read into memory and written back wholesale; a single
// process owns the file at a time and there is no locking.
package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cruizviquez/multi-platform-blog-poster/internal/content"
)

type Store struct {
	path   string
	logger *logrus.Logger
	now    func() time.Time
}

func NewStore(path string, logger *logrus.Logger) *Store {
	return &Store{path: path, logger: logger, now: time.Now}
}

// WithClock replaces the enqueue timestamp source, for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Load reads the full queue. A missing or unparsable file is a valid cold
// start and yields an empty queue.
func (s *Store) Load() []content.Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WithError(err).WithField("path", s.path).
				Warn("Queue file unreadable, treating as empty")
		}
		return nil
	}
	var records []content.Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.WithError(err).WithField("path", s.path).
			Warn("Queue file unparsable, treating as empty")
		return nil
	}
	return records
}

// Save rewrites the queue file with the given records.
func (s *Store) Save(records []content.Record) error {
	if records == nil {
		records = []content.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal queue: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write queue: %w", err)
	}
	return nil
}

// Append stamps queue bookkeeping onto the records and appends them to the
// persisted queue.
func (s *Store) Append(records []content.Record) error {
	existing := s.Load()
	for i := range records {
		records[i].QueuePosition = len(existing) + i + 1
		records[i].AddedToQueue = s.now()
	}
	return s.Save(append(existing, records...))
}

// Len returns the number of queued records.
func (s *Store) Len() int {
	return len(s.Load())
}

// Clear empties the queue file.
func (s *Store) Clear() error {
	return s.Save(nil)
}
