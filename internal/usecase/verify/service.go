// Package verify implements the submission-verification side of the RE-ARC
// identifier scheme: decoding presented batches back into their seed,
// generation order and hidden message before any scoring happens elsewhere.
package verify

import (
	"context"
	"fmt"
	"time"

	"github.com/bkyoung/rearc/internal/codec"
	"github.com/bkyoung/rearc/internal/domain"
)

// Codec is the decoding dependency of the service.
type Codec interface {
	DecodeTaskIDs(identifiers []string, pepper string, messageLength int) (codec.DecodeResult, error)
}

// Store records decode audits.
type Store interface {
	RecordDecode(ctx context.Context, audit DecodeAudit) error
}

// Logger receives structured service events.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
	LogError(ctx context.Context, message string, fields map[string]interface{})
}

// DecodeAudit is the stored trace of one verification call.
type DecodeAudit struct {
	SeedID          uint32
	NumIdentifiers  int
	MessageLength   int
	InOriginalOrder bool
	DecodedAt       time.Time
}

// Deps captures the collaborators for the service. Store and Logger are
// optional.
type Deps struct {
	Codec  Codec
	Store  Store
	Logger Logger
	Now    func() time.Time
}

// Service verifies submitted identifier batches.
type Service struct {
	codec  Codec
	store  Store
	logger Logger
	now    func() time.Time
}

// NewService constructs a verification service.
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

// VerifyRequest describes one submission to decode.
type VerifyRequest struct {
	Identifiers   []string
	Pepper        string
	MessageLength int
}

// VerifySubmission decodes the submission, recovers the original generation
// order and optional message, and records an audit row. Decode failures are
// fatal for the submission and surface as codec errors.
func (s *Service) VerifySubmission(ctx context.Context, req VerifyRequest) (domain.Verification, error) {
	if req.Pepper == "" {
		return domain.Verification{}, fmt.Errorf("pepper is required to regenerate sequences")
	}

	result, err := s.codec.DecodeTaskIDs(req.Identifiers, req.Pepper, req.MessageLength)
	if err != nil {
		s.logError(ctx, "submission failed to decode", map[string]interface{}{
			"numIdentifiers": len(req.Identifiers),
			"error":          err.Error(),
		})
		return domain.Verification{}, fmt.Errorf("decode submission: %w", err)
	}

	verification := domain.Verification{
		SeedID:             result.SeedID,
		OrderedIdentifiers: result.OrderedIdentifiers,
		Message:            result.Message,
		InOriginalOrder:    sameOrder(req.Identifiers, result.OrderedIdentifiers),
	}

	if s.store != nil {
		audit := DecodeAudit{
			SeedID:          verification.SeedID,
			NumIdentifiers:  len(req.Identifiers),
			MessageLength:   req.MessageLength,
			InOriginalOrder: verification.InOriginalOrder,
			DecodedAt:       s.now(),
		}
		if err := s.store.RecordDecode(ctx, audit); err != nil {
			s.logWarning(ctx, "failed to record decode audit", map[string]interface{}{
				"seedId": fmt.Sprintf("%08x", verification.SeedID),
				"error":  err.Error(),
			})
		}
	}

	s.logInfo(ctx, "verified submission", map[string]interface{}{
		"seedId":          fmt.Sprintf("%08x", verification.SeedID),
		"numIdentifiers":  len(req.Identifiers),
		"inOriginalOrder": verification.InOriginalOrder,
	})

	return verification, nil
}

func sameOrder(submitted, ordered []string) bool {
	if len(submitted) != len(ordered) {
		return false
	}
	for i := range submitted {
		if submitted[i] != ordered[i] {
			return false
		}
	}
	return true
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

func (s *Service) logError(ctx context.Context, message string, fields map[string]interface{}) {
	if s.logger != nil {
		s.logger.LogError(ctx, message, fields)
	}
}
