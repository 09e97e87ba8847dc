package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Batch is one generated set of task identifiers. Identifiers holds the
// generation order; TransmissionOrder is what was (or will be) handed out,
// which may be a shuffle of the same identifiers. Decoding never depends on
// the transmission order.
type Batch struct {
	BatchID           string    `json:"batchId"`
	SeedID            uint32    `json:"seedId"`
	NumTasks          int       `json:"numTasks"`
	Label             string    `json:"label,omitempty"`
	Identifiers       []string  `json:"identifiers"`
	TransmissionOrder []string  `json:"transmissionOrder"`
	MessageLength     int       `json:"messageLength"`
	CreatedAt         time.Time `json:"createdAt"`
}

// BatchInput captures the information required to create a Batch.
type BatchInput struct {
	SeedID            uint32
	Label             string
	Identifiers       []string
	TransmissionOrder []string
	MessageLength     int
	CreatedAt         time.Time
}

// NewBatch constructs a Batch with a deterministic ID derived from the seed
// and the generation-order identifiers.
func NewBatch(input BatchInput) Batch {
	transmission := input.TransmissionOrder
	if transmission == nil {
		transmission = input.Identifiers
	}
	return Batch{
		BatchID:           hashBatch(input.SeedID, input.Identifiers),
		SeedID:            input.SeedID,
		NumTasks:          len(input.Identifiers),
		Label:             input.Label,
		Identifiers:       input.Identifiers,
		TransmissionOrder: transmission,
		MessageLength:     input.MessageLength,
		CreatedAt:         input.CreatedAt,
	}
}

func hashBatch(seedID uint32, identifiers []string) string {
	payload := fmt.Sprintf("%08x|%s", seedID, strings.Join(identifiers, ","))
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:8])
}

// BatchArtifact is the input for the output writers.
type BatchArtifact struct {
	OutputDir string
	Batch     Batch
}

// Verification is the outcome of decoding a submitted identifier batch.
type Verification struct {
	SeedID             uint32   `json:"seedId"`
	OrderedIdentifiers []string `json:"orderedIdentifiers"`
	Message            []byte   `json:"message,omitempty"`

	// InOriginalOrder reports whether the submission already matched the
	// generation order.
	InOriginalOrder bool `json:"inOriginalOrder"`
}
