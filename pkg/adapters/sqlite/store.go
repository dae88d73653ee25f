package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/anreach/pkg/domain"
	_ "modernc.org/sqlite"
)

// Store implements ports.VerdictStore on a SQLite table.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the database at path with the modernc.org/sqlite driver and
// prepares the schema. ":memory:" keeps the cache in process.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// Every pooled connection to ":memory:" would see its own database.
	db.SetMaxOpenConns(1)

	s, err := New(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New initializes the schema in db. The caller owns the driver import.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize verdict schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS verdicts (
			key TEXT PRIMARY KEY,
			outcome TEXT NOT NULL,
			report BLOB NOT NULL,
			saved_at INTEGER NOT NULL
		);`,
	)
	return err
}

// Save upserts the report.
func (s *Store) Save(ctx context.Context, key string, report *domain.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO verdicts (key, outcome, report, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			outcome = excluded.outcome,
			report = excluded.report,
			saved_at = excluded.saved_at`,
		key, string(report.Outcome), data, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save verdict: %w", err)
	}
	return nil
}

// Load retrieves the report stored under key.
func (s *Store) Load(ctx context.Context, key string) (*domain.Report, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT report FROM verdicts WHERE key = ?`, key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVerdictNotFound
		}
		return nil, fmt.Errorf("failed to load verdict: %w", err)
	}

	var report domain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// Delete removes the report.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM verdicts WHERE key = ?`, key)
	return err
}

// List returns the stored keys, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM verdicts ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list verdicts: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// CountByOutcome reports how many cached verdicts carry each outcome.
func (s *Store) CountByOutcome(ctx context.Context) (map[domain.Outcome]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM verdicts GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("failed to count verdicts: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Outcome]int)
	for rows.Next() {
		var (
			outcome string
			n       int
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		counts[domain.Outcome(outcome)] = n
	}
	return counts, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
