// Package history keeps a SQLite journal of executed cipher operations.
// Only metadata is stored: operation names, text lengths and outcomes.
// Plaintext, ciphertext and key material are never written.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite" // SQLite driver
)

// Outcome values recorded for an entry.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// tsLayout is fixed-width so stored timestamps sort lexically.
const tsLayout = "2006-01-02T15:04:05.000000000Z"

// Entry is one journaled operation.
type Entry struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Source    string        `json:"source"`
	Operation string        `json:"operation"`
	InputLen  int           `json:"input_len"`
	OutputLen int           `json:"output_len"`
	Outcome   string        `json:"outcome"`
	ErrorKind string        `json:"error_kind,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// Journal handles persistent storage of history entries.
type Journal struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates or opens the journal at path.
func Open(path string, logger *slog.Logger) (*Journal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history path must not be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	j := &Journal{db: db, logger: logger}
	if err := j.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS operations (
		id TEXT PRIMARY KEY,
		ts TEXT NOT NULL,
		source TEXT NOT NULL,
		operation TEXT NOT NULL,
		input_len INTEGER NOT NULL,
		output_len INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		error_kind TEXT,
		duration_us INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_operations_operation ON operations(operation);
	CREATE INDEX IF NOT EXISTS idx_operations_ts ON operations(ts);
	`
	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Record stores e, assigning an ID and timestamp when unset.
func (j *Journal) Record(ctx context.Context, e *Entry) error {
	if e.Operation == "" {
		return errors.New("history entry needs an operation")
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if e.ID == "" {
		e.ID = ulid.MustNew(ulid.Timestamp(e.Timestamp), ulid.DefaultEntropy()).String()
	}
	if e.Outcome == "" {
		e.Outcome = OutcomeOK
	}

	_, err := j.db.ExecContext(ctx, `
	INSERT INTO operations (id, ts, source, operation, input_len, output_len, outcome, error_kind, duration_us)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.Timestamp.UTC().Format(tsLayout),
		e.Source,
		e.Operation,
		e.InputLen,
		e.OutputLen,
		e.Outcome,
		e.ErrorKind,
		e.Duration.Microseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	j.logger.Debug("history entry recorded", "id", e.ID, "operation", e.Operation, "outcome", e.Outcome)
	return nil
}

// List returns the newest entries first. limit <= 0 returns everything.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	return j.query(ctx, nil, limit)
}

// Search returns entries matching a whitespace-separated key:value query.
// Supported keys are op (substring), source, outcome and error.
func (j *Journal) Search(ctx context.Context, rawQuery string, limit int) ([]Entry, error) {
	filters, err := parseQuery(rawQuery)
	if err != nil {
		return nil, err
	}
	return j.query(ctx, filters, limit)
}

type filter struct {
	clause string
	arg    any
}

func parseQuery(input string) ([]filter, error) {
	tokens := strings.Fields(input)
	filters := make([]filter, 0, len(tokens))
	for _, token := range tokens {
		key, value, ok := strings.Cut(token, ":")
		if !ok {
			return nil, fmt.Errorf("invalid query token %q (expected key:value)", token)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if value == "" {
			return nil, fmt.Errorf("query term %q missing value", key)
		}
		switch key {
		case "op", "operation":
			filters = append(filters, filter{"operation LIKE ?", "%" + value + "%"})
		case "source":
			filters = append(filters, filter{"source = ?", value})
		case "outcome":
			value = strings.ToLower(value)
			if value != OutcomeOK && value != OutcomeError {
				return nil, fmt.Errorf("invalid outcome %q", value)
			}
			filters = append(filters, filter{"outcome = ?", value})
		case "error":
			filters = append(filters, filter{"error_kind = ?", value})
		default:
			return nil, fmt.Errorf("unsupported query field %q", key)
		}
	}
	return filters, nil
}

func (j *Journal) query(ctx context.Context, filters []filter, limit int) ([]Entry, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, ts, source, operation, input_len, output_len, outcome, error_kind, duration_us FROM operations`)
	args := make([]any, 0, len(filters)+1)
	for i, f := range filters {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(f.clause)
		args = append(args, f.arg)
	}
	sb.WriteString(" ORDER BY id DESC")
	if limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			ts         string
			errorKind  sql.NullString
			durationUS int64
		)
		if err := rows.Scan(&e.ID, &ts, &e.Source, &e.Operation, &e.InputLen, &e.OutputLen, &e.Outcome, &errorKind, &durationUS); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if e.Timestamp, err = time.Parse(tsLayout, ts); err != nil {
			return nil, fmt.Errorf("history entry %s has bad timestamp: %w", e.ID, err)
		}
		e.ErrorKind = errorKind.String
		e.Duration = time.Duration(durationUS) * time.Microsecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats counts successes and failures per operation.
type Stats struct {
	Operation string `json:"operation"`
	OK        int    `json:"ok"`
	Errors    int    `json:"errors"`
}

// Summarize returns per-operation counts sorted by operation name.
func (j *Journal) Summarize(ctx context.Context) ([]Stats, error) {
	rows, err := j.db.QueryContext(ctx, `
	SELECT operation,
		SUM(CASE WHEN outcome = 'ok' THEN 1 ELSE 0 END),
		SUM(CASE WHEN outcome = 'error' THEN 1 ELSE 0 END)
	FROM operations
	GROUP BY operation
	ORDER BY operation`)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize history: %w", err)
	}
	defer rows.Close()

	var stats []Stats
	for rows.Next() {
		var s Stats
		if err := rows.Scan(&s.Operation, &s.OK, &s.Errors); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// Prune deletes entries recorded before cutoff and returns how many were removed.
func (j *Journal) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := j.db.ExecContext(ctx, `DELETE FROM operations WHERE ts < ?`, cutoff.UTC().Format(tsLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return res.RowsAffected()
}
