// Package store provides SQLite-backed persistence for metric
// collections, model snapshots, the A/B test ledger, and pipeline
// metadata. It owns the retention caps and the degradation contract:
// loads never fail the caller, appends report failures upward.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/leadpilot/leadpilot/internal/logging"
	"github.com/leadpilot/leadpilot/pkg/models"
)

// Retention caps per metric collection. Oldest records beyond the
// cap are evicted inside the append transaction.
const (
	EmailRetention      = 10000
	ConversionRetention = 5000
	PricingRetention    = 2000
	ContentRetention    = 5000
)

// Store wraps an SQLite database with leadpilot-specific operations.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
	logger *logging.DebugLogger
}

// DefaultDBPath returns the path to the leadpilot database under the
// XDG data directory.
func DefaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "leadpilot", "leadpilot.db")
}

// Open opens an SQLite database at the given path.
// It creates the parent directories if they don't exist.
// WAL mode is enabled for concurrent reads.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &Store{
		db:     conn,
		dbPath: dbPath,
		logger: logging.NopLogger(),
	}, nil
}

// OpenDefault opens the store at the default XDG path.
func OpenDefault() (*Store, error) {
	return Open(DefaultDBPath())
}

// SetLogger attaches a debug logger for degraded-load reporting.
func (s *Store) SetLogger(l *logging.DebugLogger) {
	if l != nil {
		s.logger = l
	}
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Path returns the path to the database file.
func (s *Store) Path() string {
	return s.dbPath
}

// Counts returns the number of records in each metric collection.
func (s *Store) Counts() map[models.Category]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[models.Category]int, 4)
	tables := map[models.Category]string{
		models.CategoryEmail:       "email_events",
		models.CategoryConversions: "conversion_events",
		models.CategoryPricing:     "pricing_events",
		models.CategoryContent:     "content_events",
	}
	for cat, table := range tables {
		var n int
		row := s.db.QueryRow("SELECT COUNT(*) FROM " + table)
		if err := row.Scan(&n); err != nil {
			s.logger.Log("count %s failed: %v", table, err)
			continue
		}
		counts[cat] = n
	}
	return counts
}

// Helper functions

// formatTime formats a time.Time for SQLite storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime parses a time string from SQLite.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// boolInt converts a bool to its SQLite integer form.
func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
