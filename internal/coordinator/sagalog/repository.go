package sagalog

import "context"

// Repository persists saga log entries. The table is append-only: each Save
// adds a row.
type Repository interface {
	Save(ctx context.Context, entry *SagaLog) error
}

// Reader lists the entries of one saga, oldest first.
type Reader interface {
	History(ctx context.Context, sagaID string) ([]*SagaLog, error)
}
