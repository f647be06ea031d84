package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/leadpilot/leadpilot/pkg/models"
)

// ABTestStatusRunning is the status a new ledger entry starts in.
const ABTestStatusRunning = "running"

// CreateABTest creates a ledger entry with zeroed counters.
func (s *Store) CreateABTest(id, variantA, variantB string) (models.ABTest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	test := models.ABTest{
		ID:       id,
		VariantA: variantA,
		VariantB: variantB,
		Started:  time.Now(),
		Status:   ABTestStatusRunning,
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO ab_tests (id, variant_a, variant_b, started, status, a, b, a_conversions, b_conversions)
		VALUES (?, ?, ?, ?, ?, 0, 0, 0, 0)
	`, test.ID, test.VariantA, test.VariantB, formatTime(test.Started), test.Status)
	if err != nil {
		return models.ABTest{}, fmt.Errorf("create ab test: %w", err)
	}
	return test, nil
}

// RecordABResult increments the exposure counter for the variant, and
// the conversion counter when converted is true. Unknown test ids are
// silently ignored.
func (s *Store) RecordABResult(id, variant string, converted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exposure, conversions string
	switch variant {
	case "A", "a":
		exposure, conversions = "a", "a_conversions"
	case "B", "b":
		exposure, conversions = "b", "b_conversions"
	default:
		return fmt.Errorf("unknown variant %q", variant)
	}

	query := fmt.Sprintf("UPDATE ab_tests SET %s = %s + 1 WHERE id = ?", exposure, exposure)
	if converted {
		query = fmt.Sprintf("UPDATE ab_tests SET %s = %s + 1, %s = %s + 1 WHERE id = ?",
			exposure, exposure, conversions, conversions)
	}

	// Unknown ids match zero rows; that is not an error.
	if _, err := s.db.Exec(query, id); err != nil {
		return fmt.Errorf("record ab result: %w", err)
	}
	return nil
}

// GetABTest returns the ledger entry for the given id.
func (s *Store) GetABTest(id string) (models.ABTest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var test models.ABTest
	var started string
	row := s.db.QueryRow(`
		SELECT id, variant_a, variant_b, started, status, a, b, a_conversions, b_conversions
		FROM ab_tests WHERE id = ?
	`, id)
	err := row.Scan(&test.ID, &test.VariantA, &test.VariantB, &started, &test.Status,
		&test.A, &test.B, &test.AConversions, &test.BConversions)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Log("load ab test %s failed: %v", id, err)
		}
		return models.ABTest{}, false
	}
	test.Started, _ = parseTime(started)
	return test, true
}

// ABTests returns all ledger entries, oldest first.
func (s *Store) ABTests() []models.ABTest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, variant_a, variant_b, started, status, a, b, a_conversions, b_conversions
		FROM ab_tests ORDER BY started ASC
	`)
	if err != nil {
		s.logger.Log("list ab tests failed: %v", err)
		return nil
	}
	defer rows.Close()

	var tests []models.ABTest
	for rows.Next() {
		var test models.ABTest
		var started string
		if err := rows.Scan(&test.ID, &test.VariantA, &test.VariantB, &started, &test.Status,
			&test.A, &test.B, &test.AConversions, &test.BConversions); err != nil {
			continue
		}
		test.Started, _ = parseTime(started)
		tests = append(tests, test)
	}
	return tests
}
