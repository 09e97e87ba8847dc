package json

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bkyoung/rearc/internal/domain"
)

// Writer persists batch artifacts as JSON files.
type Writer struct {
	now func() string
}

// NewWriter creates a new JSON writer with a timestamp supplier.
func NewWriter(now func() string) *Writer {
	return &Writer{now: now}
}

// Write persists a batch to disk as a JSON file and returns its path.
func (w *Writer) Write(ctx context.Context, artifact domain.BatchArtifact) (string, error) {
	outputDir := filepath.Join(artifact.OutputDir, artifactDirName(artifact.Batch), w.now())
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filePath := filepath.Join(outputDir, "batch.json")

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create json file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(artifact.Batch); err != nil {
		return "", fmt.Errorf("failed to encode batch to json: %w", err)
	}

	return filePath, nil
}

func artifactDirName(batch domain.Batch) string {
	if batch.Label != "" {
		return fmt.Sprintf("%s_%s", batch.Label, batch.BatchID)
	}
	return batch.BatchID
}
