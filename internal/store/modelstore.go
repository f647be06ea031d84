package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/leadpilot/leadpilot/pkg/models"
)

const lastTrainedKey = "last_trained_at"

// SaveModel persists a model snapshot under its name, overwriting any
// previous version. Older versions are not retained.
func (s *Store) SaveModel(name models.ModelName, trainedAt time.Time, payload interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal model %s: %w", name, err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO model_snapshots (name, trained_at, payload)
		VALUES (?, ?, ?)
	`, string(name), formatTime(trainedAt), string(data))
	if err != nil {
		return fmt.Errorf("save model %s: %w", name, err)
	}
	return nil
}

// LoadModel unmarshals the named snapshot into out. Returns false if
// no snapshot exists or the stored payload cannot be read.
func (s *Store) LoadModel(name models.ModelName, out interface{}) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var trainedAt, payload string
	row := s.db.QueryRow("SELECT trained_at, payload FROM model_snapshots WHERE name = ?", string(name))
	if err := row.Scan(&trainedAt, &payload); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Log("load model %s failed: %v", name, err)
		}
		return time.Time{}, false
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		s.logger.Log("unmarshal model %s failed: %v", name, err)
		return time.Time{}, false
	}

	ts, _ := parseTime(trainedAt)
	return ts, true
}

// ModelNames returns the names of all persisted snapshots with their
// training timestamps, for status reporting.
func (s *Store) ModelNames() map[models.ModelName]time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[models.ModelName]time.Time)
	rows, err := s.db.Query("SELECT name, trained_at FROM model_snapshots")
	if err != nil {
		s.logger.Log("list models failed: %v", err)
		return out
	}
	defer rows.Close()

	for rows.Next() {
		var name, trainedAt string
		if err := rows.Scan(&name, &trainedAt); err != nil {
			continue
		}
		ts, _ := parseTime(trainedAt)
		out[models.ModelName(name)] = ts
	}
	return out
}

// LastTrainedAt returns the timestamp of the last completed training
// run, or zero if the pipeline has never finished a run.
func (s *Store) LastTrainedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	row := s.db.QueryRow("SELECT value FROM pipeline_meta WHERE key = ?", lastTrainedKey)
	if err := row.Scan(&value); err != nil {
		return time.Time{}
	}
	ts, err := parseTime(value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// SetLastTrainedAt records the completion of a training run. This is
// the only durable marker of pipeline progress; a crash mid-run leaves
// it untouched so the next run re-triggers in full.
func (s *Store) SetLastTrainedAt(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO pipeline_meta (key, value) VALUES (?, ?)
	`, lastTrainedKey, formatTime(t))
	if err != nil {
		return fmt.Errorf("set last trained at: %w", err)
	}
	return nil
}
