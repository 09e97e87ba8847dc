package store

import (
	"context"
	"time"
)

// Store defines the persistence layer for batch history and decode audits.
type Store interface {
	// Batch persistence
	SaveBatch(ctx context.Context, batch BatchRecord) error
	GetBatch(ctx context.Context, batchID string) (BatchRecord, error)
	ListBatches(ctx context.Context, limit int) ([]BatchRecord, error)

	// Decode audit trail
	RecordDecode(ctx context.Context, decode DecodeRecord) error
	ListDecodes(ctx context.Context, limit int) ([]DecodeRecord, error)

	// Utility
	Close() error
}

// BatchRecord represents a stored identifier batch. Identifiers are kept in
// generation order; position is the ordering key.
type BatchRecord struct {
	BatchID       string
	SeedID        uint32
	NumTasks      int
	Label         string
	MessageLength int
	Identifiers   []string
	CreatedAt     time.Time
}

// DecodeRecord captures one decode/verification call for auditing.
type DecodeRecord struct {
	DecodeID        int
	SeedID          uint32
	NumIdentifiers  int
	MessageLength   int
	InOriginalOrder bool
	DecodedAt       time.Time
}
