package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/juan-carlos-trimino/mem-gateway/pkg/config"
)

// schema is the audit table definition. The timestamp index serves
// both retention pruning and time-range queries.
const schema = `
CREATE TABLE IF NOT EXISTS audit_records (
	id             TEXT PRIMARY KEY,
	ts             INTEGER NOT NULL,
	correlation_id TEXT NOT NULL,
	route          TEXT NOT NULL,
	method         TEXT NOT NULL,
	path           TEXT NOT NULL,
	client_ip      TEXT NOT NULL,
	upstream       TEXT NOT NULL,
	status         INTEGER NOT NULL,
	latency_ms     INTEGER NOT NULL,
	bytes          INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_ts ON audit_records (ts);
CREATE INDEX IF NOT EXISTS idx_audit_correlation ON audit_records (correlation_id);
`

// SQLiteStore implements Store using a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (and if needed creates) the audit database at
// the configured path. WAL mode is enabled so audit writes do not
// block the pruner's reads.
func NewSQLiteStore(cfg config.SQLiteConfig) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database %q: %w", cfg.Path, err)
	}

	// A single writer connection sidesteps SQLITE_BUSY contention.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", cfg.BusyTimeout.Milliseconds())); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create audit schema: %w", err)
	}

	logger := slog.Default().With("component", "audit.sqlite")
	logger.Info("audit store initialized", "path", cfg.Path)

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Insert writes one record.
func (s *SQLiteStore) Insert(ctx context.Context, rec *Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_records
		 (id, ts, correlation_id, route, method, path, client_ip, upstream, status, latency_ms, bytes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Timestamp.UnixMilli(),
		rec.CorrelationID,
		rec.Route,
		rec.Method,
		rec.Path,
		rec.ClientIP,
		rec.Upstream,
		rec.Status,
		rec.LatencyMS,
		rec.Bytes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}

// Query returns matching records, newest first.
func (s *SQLiteStore) Query(ctx context.Context, q *Query) ([]*Record, error) {
	sqlQuery := `SELECT id, ts, correlation_id, route, method, path, client_ip, upstream, status, latency_ms, bytes
	             FROM audit_records WHERE 1=1`
	args := []any{}

	if q.CorrelationID != "" {
		sqlQuery += " AND correlation_id = ?"
		args = append(args, q.CorrelationID)
	}
	if q.Route != "" {
		sqlQuery += " AND route = ?"
		args = append(args, q.Route)
	}
	if q.StartTime != nil {
		sqlQuery += " AND ts >= ?"
		args = append(args, q.StartTime.UnixMilli())
	}
	if q.EndTime != nil {
		sqlQuery += " AND ts < ?"
		args = append(args, q.EndTime.UnixMilli())
	}

	sqlQuery += " ORDER BY ts DESC"
	if q.Limit > 0 {
		sqlQuery += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var rec Record
		var ts int64
		if err := rows.Scan(
			&rec.ID, &ts, &rec.CorrelationID, &rec.Route, &rec.Method,
			&rec.Path, &rec.ClientIP, &rec.Upstream, &rec.Status,
			&rec.LatencyMS, &rec.Bytes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// DeleteOlderThan removes records older than the cutoff.
func (s *SQLiteStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM audit_records WHERE ts < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit records: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count audit records: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
