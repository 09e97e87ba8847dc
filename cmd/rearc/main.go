package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bkyoung/rearc/internal/adapter/cli"
	"github.com/bkyoung/rearc/internal/adapter/observability"
	"github.com/bkyoung/rearc/internal/adapter/output/json"
	"github.com/bkyoung/rearc/internal/adapter/output/markdown"
	storeAdapter "github.com/bkyoung/rearc/internal/adapter/store"
	"github.com/bkyoung/rearc/internal/adapter/store/sqlite"
	"github.com/bkyoung/rearc/internal/codec"
	"github.com/bkyoung/rearc/internal/config"
	"github.com/bkyoung/rearc/internal/usecase/dataset"
	"github.com/bkyoung/rearc/internal/usecase/verify"
	"github.com/bkyoung/rearc/internal/version"
)

func main() {
	if err := run(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	// Create cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "rearc",
		EnvPrefix:   "REARC",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	// Timestamp function for deterministic output file naming
	nowFunc := func() string {
		return time.Now().UTC().Format("20060102T150405Z")
	}

	writers := map[string]cli.ArtifactWriter{
		"json":     json.NewWriter(nowFunc),
		"markdown": markdown.NewWriter(nowFunc),
	}

	logger := buildLogger(cfg.Observability)

	identifierCodec := codec.NewCodec(cfg.Codec.MaxAttempts)

	// Initialize store if enabled. Store failures degrade to warnings;
	// generation and decoding never depend on persistence.
	var bridge *storeAdapter.Bridge
	var lister cli.BatchLister
	if cfg.Store.Enabled {
		storeDir := filepath.Dir(cfg.Store.Path)
		if err := os.MkdirAll(storeDir, 0755); err != nil {
			log.Printf("warning: failed to create store directory: %v", err)
		} else {
			sqliteStore, err := sqlite.NewStore(cfg.Store.Path)
			if err != nil {
				log.Printf("warning: failed to initialize store: %v", err)
			} else {
				bridge = storeAdapter.NewBridge(sqliteStore)
				lister = sqliteStore
				defer bridge.Close()
			}
		}
	}

	generatorDeps := dataset.Deps{Codec: identifierCodec}
	verifierDeps := verify.Deps{Codec: identifierCodec}
	if bridge != nil {
		generatorDeps.Store = bridge
		verifierDeps.Store = bridge
	}
	if logger != nil {
		generatorDeps.Logger = logger
		verifierDeps.Logger = logger
	}

	generator := dataset.NewService(generatorDeps)
	verifier := verify.NewService(verifierDeps)

	root := cli.NewRootCommand(cli.Dependencies{
		Generator:     generator,
		Verifier:      verifier,
		RecoverSeed:   codec.RecoverSeed,
		Batches:       lister,
		Writers:       writers,
		DefaultOutput: cfg.Output.Directory,
		DefaultFormat: cfg.Output.Format,
		DefaultPepper: cfg.Codec.Pepper,
		PepperPrompt:  cli.TerminalPepperPrompt,
		Version:       version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "rearc"))
	}
	return paths
}

// buildLogger creates the structured logger based on configuration. Returns
// nil when logging is disabled; the services treat a nil logger as a no-op.
func buildLogger(cfg config.ObservabilityConfig) *observability.DefaultLogger {
	if !cfg.Logging.Enabled {
		return nil
	}
	level := observability.ParseLevel(cfg.Logging.Level)
	format := observability.ParseFormat(cfg.Logging.Format)
	return observability.NewDefaultLogger(level, format, cfg.Logging.RedactPepper)
}
