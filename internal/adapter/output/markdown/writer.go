package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bkyoung/rearc/internal/domain"
)

type clock func() string

// Writer renders batch artifacts into Markdown reports.
type Writer struct {
	now clock
}

// NewWriter constructs a Markdown writer with a timestamp supplier.
func NewWriter(now clock) *Writer {
	return &Writer{now: now}
}

// Write persists a Markdown artifact to disk and returns its path.
func (w *Writer) Write(ctx context.Context, artifact domain.BatchArtifact) (string, error) {
	if err := os.MkdirAll(artifact.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	filename := fmt.Sprintf("batch_%s_%s.md", sanitise(artifactName(artifact.Batch)), w.now())
	path := filepath.Join(artifact.OutputDir, filename)

	content := buildContent(artifact.Batch)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write markdown: %w", err)
	}

	return path, nil
}

func buildContent(batch domain.Batch) string {
	var builder strings.Builder
	caser := cases.Title(language.English)

	builder.WriteString("# Task Identifier Batch\n\n")
	builder.WriteString(fmt.Sprintf("- Batch: %s\n", batch.BatchID))
	if batch.Label != "" {
		builder.WriteString(fmt.Sprintf("- Label: %s\n", caser.String(batch.Label)))
	}
	builder.WriteString(fmt.Sprintf("- Seed: %08x\n", batch.SeedID))
	builder.WriteString(fmt.Sprintf("- Tasks: %d\n", batch.NumTasks))
	if batch.MessageLength > 0 {
		builder.WriteString(fmt.Sprintf("- Embedded Message: %d bytes\n", batch.MessageLength))
	}
	builder.WriteString(fmt.Sprintf("- Created: %s\n\n", batch.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")))

	builder.WriteString("## Identifiers\n\n")
	builder.WriteString("| Position | Identifier |\n")
	builder.WriteString("|---|---|\n")
	for i, id := range batch.TransmissionOrder {
		builder.WriteString(fmt.Sprintf("| %d | `%s` |\n", i, id))
	}

	return builder.String()
}

func artifactName(batch domain.Batch) string {
	if batch.Label != "" {
		return batch.Label
	}
	return batch.BatchID
}

func sanitise(value string) string {
	replacer := strings.NewReplacer("/", "-", " ", "-", ":", "-")
	return replacer.Replace(value)
}
