package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bkyoung/rearc/internal/store"
	_ "github.com/mattn/go-sqlite3"
)

// Store implements the store.Store interface using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store at the given path.
// Use ":memory:" for an in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}

	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return s, nil
}

// createSchema creates all tables and indexes if they don't exist.
func (s *Store) createSchema() error {
	schema := `
	-- Generated identifier batches
	CREATE TABLE IF NOT EXISTS batches (
		batch_id TEXT PRIMARY KEY,
		seed_id INTEGER NOT NULL,
		num_tasks INTEGER NOT NULL,
		label TEXT,
		message_length INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);

	-- Identifiers per batch, position preserves generation order
	CREATE TABLE IF NOT EXISTS batch_identifiers (
		batch_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		identifier TEXT NOT NULL,
		PRIMARY KEY (batch_id, position),
		FOREIGN KEY (batch_id) REFERENCES batches(batch_id) ON DELETE CASCADE
	);

	-- Audit trail of decode/verification calls
	CREATE TABLE IF NOT EXISTS decodes (
		decode_id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed_id INTEGER NOT NULL,
		num_identifiers INTEGER NOT NULL,
		message_length INTEGER NOT NULL DEFAULT 0,
		in_original_order INTEGER NOT NULL DEFAULT 0,
		decoded_at INTEGER NOT NULL
	);

	-- Indexes for performance
	CREATE INDEX IF NOT EXISTS idx_batches_seed ON batches(seed_id);
	CREATE INDEX IF NOT EXISTS idx_batches_created ON batches(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_decodes_seed ON decodes(seed_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveBatch stores a batch and its identifiers in a single transaction.
func (s *Store) SaveBatch(ctx context.Context, batch store.BatchRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO batches (batch_id, seed_id, num_tasks, label, message_length, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		batch.BatchID,
		int64(batch.SeedID),
		batch.NumTasks,
		batch.Label,
		batch.MessageLength,
		batch.CreatedAt.Unix(),
	); err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO batch_identifiers (batch_id, position, identifier)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for position, identifier := range batch.Identifiers {
		if _, err := stmt.ExecContext(ctx, batch.BatchID, position, identifier); err != nil {
			return fmt.Errorf("failed to insert identifier: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetBatch retrieves a batch with its identifiers in generation order.
func (s *Store) GetBatch(ctx context.Context, batchID string) (store.BatchRecord, error) {
	var batch store.BatchRecord
	var seedID int64
	var createdAt int64

	err := s.db.QueryRowContext(ctx, `
		SELECT batch_id, seed_id, num_tasks, label, message_length, created_at
		FROM batches
		WHERE batch_id = ?
	`, batchID).Scan(
		&batch.BatchID,
		&seedID,
		&batch.NumTasks,
		&batch.Label,
		&batch.MessageLength,
		&createdAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return store.BatchRecord{}, fmt.Errorf("batch not found: %s", batchID)
		}
		return store.BatchRecord{}, fmt.Errorf("failed to get batch: %w", err)
	}

	batch.SeedID = uint32(seedID)
	batch.CreatedAt = time.Unix(createdAt, 0)

	identifiers, err := s.batchIdentifiers(ctx, batchID)
	if err != nil {
		return store.BatchRecord{}, err
	}
	batch.Identifiers = identifiers

	return batch, nil
}

func (s *Store) batchIdentifiers(ctx context.Context, batchID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT identifier
		FROM batch_identifiers
		WHERE batch_id = ?
		ORDER BY position ASC
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get batch identifiers: %w", err)
	}
	defer rows.Close()

	var identifiers []string
	for rows.Next() {
		var identifier string
		if err := rows.Scan(&identifier); err != nil {
			return nil, fmt.Errorf("failed to scan identifier: %w", err)
		}
		identifiers = append(identifiers, identifier)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating identifiers: %w", err)
	}

	return identifiers, nil
}

// ListBatches retrieves the most recent batches, limited by the given count.
// Identifier lists are not populated; use GetBatch for the full record.
func (s *Store) ListBatches(ctx context.Context, limit int) ([]store.BatchRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT batch_id, seed_id, num_tasks, label, message_length, created_at
		FROM batches
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer rows.Close()

	var batches []store.BatchRecord
	for rows.Next() {
		var batch store.BatchRecord
		var seedID int64
		var createdAt int64

		if err := rows.Scan(
			&batch.BatchID,
			&seedID,
			&batch.NumTasks,
			&batch.Label,
			&batch.MessageLength,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}

		batch.SeedID = uint32(seedID)
		batch.CreatedAt = time.Unix(createdAt, 0)
		batches = append(batches, batch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batches: %w", err)
	}

	return batches, nil
}

// RecordDecode stores a decode audit row.
func (s *Store) RecordDecode(ctx context.Context, decode store.DecodeRecord) error {
	inOrder := 0
	if decode.InOriginalOrder {
		inOrder = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decodes (seed_id, num_identifiers, message_length, in_original_order, decoded_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		int64(decode.SeedID),
		decode.NumIdentifiers,
		decode.MessageLength,
		inOrder,
		decode.DecodedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to record decode: %w", err)
	}

	return nil
}

// ListDecodes retrieves the most recent decode audits, limited by the given count.
func (s *Store) ListDecodes(ctx context.Context, limit int) ([]store.DecodeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT decode_id, seed_id, num_identifiers, message_length, in_original_order, decoded_at
		FROM decodes
		ORDER BY decode_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list decodes: %w", err)
	}
	defer rows.Close()

	var decodes []store.DecodeRecord
	for rows.Next() {
		var decode store.DecodeRecord
		var seedID int64
		var inOrder int
		var decodedAt int64

		if err := rows.Scan(
			&decode.DecodeID,
			&seedID,
			&decode.NumIdentifiers,
			&decode.MessageLength,
			&inOrder,
			&decodedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan decode: %w", err)
		}

		decode.SeedID = uint32(seedID)
		decode.InOriginalOrder = inOrder == 1
		decode.DecodedAt = time.Unix(decodedAt, 0)
		decodes = append(decodes, decode)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating decodes: %w", err)
	}

	return decodes, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
