// Package sqlite stores the checkout saga log in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jcmexdev/salad-storefront/internal/coordinator/sagalog"

	// Pure-Go driver, no CGO.
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a saga has no log entries.
var ErrNotFound = errors.New("sqlite: saga not found")

const schema = `
CREATE TABLE IF NOT EXISTS checkout_log (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    saga_id         TEXT        NOT NULL,
    status          TEXT        NOT NULL,
    current_step    TEXT        NOT NULL DEFAULT '',
    -- order payload, STARTED rows only
    payload         TEXT,
    error_messages  TEXT        NOT NULL DEFAULT '[]',
    trace_id        TEXT        NOT NULL DEFAULT '',
    span_id         TEXT        NOT NULL DEFAULT '',
    updated_at      TEXT        NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_checkout_log_saga_id ON checkout_log(saga_id, updated_at);
CREATE INDEX IF NOT EXISTS idx_checkout_log_trace_id ON checkout_log(trace_id);
`

const columns = `saga_id, status, current_step, COALESCE(payload,''), error_messages, trace_id, span_id, updated_at`

// Repository is the SQLite implementation of sagalog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
//
//	repo, err := sqlite.Open("./data/checkout.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// Single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends entry. It is safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *sagalog.SagaLog) error {
	const q = `
		INSERT INTO checkout_log
			(saga_id, status, current_step, payload, error_messages, trace_id, span_id, updated_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.SagaID,
		string(entry.Status),
		entry.CurrentStep,
		nullableString(entry.Payload),
		entry.ErrorMessages,
		entry.TraceID,
		entry.SpanID,
		formatTime(entry.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save checkout log for %q: %w", entry.SagaID, err)
	}
	return nil
}

// Latest returns the most recent entry for sagaID.
func (r *Repository) Latest(ctx context.Context, sagaID string) (*sagalog.SagaLog, error) {
	q := `SELECT ` + columns + `
		FROM   checkout_log
		WHERE  saga_id = ?
		ORDER  BY updated_at DESC, id DESC
		LIMIT  1`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, q, sagaID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, sagaID)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: latest for %q: %w", sagaID, err)
	}
	return entry, nil
}

// History returns every entry for sagaID, oldest first.
func (r *Repository) History(ctx context.Context, sagaID string) ([]*sagalog.SagaLog, error) {
	q := `SELECT ` + columns + `
		FROM   checkout_log
		WHERE  saga_id = ?
		ORDER  BY id ASC`

	rows, err := r.db.QueryContext(ctx, q, sagaID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: history for %q: %w", sagaID, err)
	}
	defer rows.Close()

	var out []*sagalog.SagaLog
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: history for %q: %w", sagaID, err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: history for %q: %w", sagaID, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*sagalog.SagaLog, error) {
	var entry sagalog.SagaLog
	var updatedAt string
	err := row.Scan(
		&entry.SagaID,
		&entry.Status,
		&entry.CurrentStep,
		&entry.Payload,
		&entry.ErrorMessages,
		&entry.TraceID,
		&entry.SpanID,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
