package domain

import "context"

// ReadingStore is the durable system of record for readings. Implementations
// surface faults as *StorageError and perform no retries of their own.
type ReadingStore interface {
	Insert(ctx context.Context, r Reading) error
	InsertBatch(ctx context.Context, readings []Reading) error
	// Latest returns the reading with the maximum timestamp, or ErrNoReadings.
	Latest(ctx context.Context) (Reading, error)
	// Find applies the query's range filter, sorts newest-first, then skip/limit.
	Find(ctx context.Context, q HistoryQuery) ([]Reading, error)
	Count(ctx context.Context, q HistoryQuery) (int64, error)
	// DeleteAll purges every reading and reports how many were removed.
	DeleteAll(ctx context.Context) (int64, error)
	Close() error
}
