package store

import (
	"context"

	"github.com/bkyoung/rearc/internal/domain"
	"github.com/bkyoung/rearc/internal/store"
	"github.com/bkyoung/rearc/internal/usecase/verify"
)

// Bridge adapts store.Store to the dataset and verify service interfaces.
// This avoids circular dependencies between packages.
type Bridge struct {
	store store.Store
}

// NewBridge creates a new store adapter.
func NewBridge(s store.Store) *Bridge {
	return &Bridge{store: s}
}

// SaveBatch converts and saves a generated batch.
func (b *Bridge) SaveBatch(ctx context.Context, batch domain.Batch) error {
	record := store.BatchRecord{
		BatchID:       batch.BatchID,
		SeedID:        batch.SeedID,
		NumTasks:      batch.NumTasks,
		Label:         batch.Label,
		MessageLength: batch.MessageLength,
		Identifiers:   batch.Identifiers,
		CreatedAt:     batch.CreatedAt,
	}
	return b.store.SaveBatch(ctx, record)
}

// RecordDecode converts and saves a decode audit.
func (b *Bridge) RecordDecode(ctx context.Context, audit verify.DecodeAudit) error {
	record := store.DecodeRecord{
		SeedID:          audit.SeedID,
		NumIdentifiers:  audit.NumIdentifiers,
		MessageLength:   audit.MessageLength,
		InOriginalOrder: audit.InOriginalOrder,
		DecodedAt:       audit.DecodedAt,
	}
	return b.store.RecordDecode(ctx, record)
}

// Close closes the underlying store.
func (b *Bridge) Close() error {
	return b.store.Close()
}
