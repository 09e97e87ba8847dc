// Package dataset implements the dataset-generation side of the RE-ARC
// identifier scheme: it derives internal seeds, runs the codec and hands
// finished batches to storage and output.
package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/bkyoung/rearc/internal/codec"
	"github.com/bkyoung/rearc/internal/domain"
)

// Codec is the encoding dependency of the service.
type Codec interface {
	GenerateTaskIDs(seedID, internalSeed uint32, numTasks int, message []byte) ([]string, error)
}

// Store persists generated batches.
type Store interface {
	SaveBatch(ctx context.Context, batch domain.Batch) error
}

// Logger receives structured service events.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
}

// Deps captures the collaborators for the service. Store and Logger are
// optional; a nil store skips persistence and a nil logger is silent.
type Deps struct {
	Codec  Codec
	Store  Store
	Logger Logger
	Now    func() time.Time
}

// Service generates identifier batches for dataset publication.
type Service struct {
	codec  Codec
	store  Store
	logger Logger
	now    func() time.Time
}

// NewService constructs a dataset service.
func NewService(deps Deps) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		codec:  deps.Codec,
		store:  deps.Store,
		logger: deps.Logger,
		now:    now,
	}
}

// GenerateRequest describes one batch to generate.
type GenerateRequest struct {
	SeedID   uint32
	NumTasks int
	Pepper   string

	// Message is an optional audit payload folded into the batch.
	Message []byte

	// Label tags the batch in storage and artifacts.
	Label string

	// ShuffleTransmission randomizes the hand-out order. Decoding does
	// not depend on transmission order, so this loses nothing.
	ShuffleTransmission bool
}

// GenerateResult carries the finished batch. The internal seed is returned
// for callers that chain further generation; it must never be transmitted.
type GenerateResult struct {
	Batch        domain.Batch
	InternalSeed uint32
}

// GenerateBatch derives the internal seed, runs the codec and persists the
// resulting batch. Storage failures degrade to a warning; the batch itself
// is still returned.
func (s *Service) GenerateBatch(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	if req.Pepper == "" {
		return GenerateResult{}, fmt.Errorf("pepper is required to derive the internal seed")
	}

	internalSeed := codec.DeriveSeed(req.SeedID, req.Pepper)

	identifiers, err := s.codec.GenerateTaskIDs(req.SeedID, internalSeed, req.NumTasks, req.Message)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("generate task ids: %w", err)
	}

	transmission := identifiers
	if req.ShuffleTransmission {
		transmission = make([]string, len(identifiers))
		copy(transmission, identifiers)
		prng := codec.NewPRNG(internalSeed)
		prng.Shuffle(len(transmission), func(i, j int) {
			transmission[i], transmission[j] = transmission[j], transmission[i]
		})
	}

	batch := domain.NewBatch(domain.BatchInput{
		SeedID:            req.SeedID,
		Label:             req.Label,
		Identifiers:       identifiers,
		TransmissionOrder: transmission,
		MessageLength:     len(req.Message),
		CreatedAt:         s.now(),
	})

	if s.store != nil {
		if err := s.store.SaveBatch(ctx, batch); err != nil {
			s.logWarning(ctx, "failed to persist batch", map[string]interface{}{
				"batchId": batch.BatchID,
				"error":   err.Error(),
			})
		}
	}

	s.logInfo(ctx, "generated batch", map[string]interface{}{
		"batchId":       batch.BatchID,
		"seedId":        fmt.Sprintf("%08x", batch.SeedID),
		"numTasks":      batch.NumTasks,
		"messageLength": batch.MessageLength,
	})

	return GenerateResult{Batch: batch, InternalSeed: internalSeed}, nil
}

func (s *Service) logInfo(ctx context.Context, message string, fields map[string]interface{}) {
	if s.logger != nil {
		s.logger.LogInfo(ctx, message, fields)
	}
}

func (s *Service) logWarning(ctx context.Context, message string, fields map[string]interface{}) {
	if s.logger != nil {
		s.logger.LogWarning(ctx, message, fields)
	}
}
