package cli

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bkyoung/rearc/internal/domain"
	"github.com/bkyoung/rearc/internal/store"
	"github.com/bkyoung/rearc/internal/usecase/dataset"
	"github.com/bkyoung/rearc/internal/usecase/verify"
)

// ErrVersionRequested indicates the user requested the CLI version and no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// BatchGenerator defines the dependency required to run the generate command.
type BatchGenerator interface {
	GenerateBatch(ctx context.Context, req dataset.GenerateRequest) (dataset.GenerateResult, error)
}

// SubmissionVerifier defines the dependency required to run the decode command.
type SubmissionVerifier interface {
	VerifySubmission(ctx context.Context, req verify.VerifyRequest) (domain.Verification, error)
}

// SeedRecoverer recovers a seed identifier from a batch by XOR alone.
type SeedRecoverer func(identifiers []string) (uint32, error)

// BatchLister lists previously persisted batches.
type BatchLister interface {
	ListBatches(ctx context.Context, limit int) ([]store.BatchRecord, error)
}

// ArtifactWriter renders one generated batch to disk.
type ArtifactWriter interface {
	Write(ctx context.Context, artifact domain.BatchArtifact) (string, error)
}

// Arguments encapsulates IO injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
	InReader  io.Reader
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Generator     BatchGenerator
	Verifier      SubmissionVerifier
	RecoverSeed   SeedRecoverer
	Batches       BatchLister
	Writers       map[string]ArtifactWriter
	Args          Arguments
	DefaultOutput string
	DefaultFormat string
	DefaultPepper string // from config/env; prompted for when empty
	PepperPrompt  func() (string, error)
	Version       string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "rearc",
		Short: "Seed-recoverable task identifier batches",
		Long:  "Generates, decodes and audits batches of 32-bit task identifiers whose XOR recovers the seed that produced them.",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)
	if deps.Args.InReader != nil {
		root.SetIn(deps.Args.InReader)
	}

	root.AddCommand(generateCommand(deps))
	root.AddCommand(decodeCommand(deps))
	root.AddCommand(recoverCommand(deps))
	root.AddCommand(batchesCommand(deps.Batches))

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func generateCommand(deps Dependencies) *cobra.Command {
	var seedArg string
	var count int
	var message string
	var messageHex string
	var label string
	var shuffle bool
	var outputDir string
	var format string
	var pepperFlag string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a batch of task identifiers from a seed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.Generator == nil {
				return fmt.Errorf("generator not configured")
			}
			seedID, err := parseSeedID(seedArg)
			if err != nil {
				return err
			}
			payload, err := resolveMessage(message, messageHex)
			if err != nil {
				return err
			}
			pepper, err := resolvePepper(pepperFlag, deps)
			if err != nil {
				return err
			}

			result, err := deps.Generator.GenerateBatch(cmd.Context(), dataset.GenerateRequest{
				SeedID:              seedID,
				NumTasks:            count,
				Pepper:              pepper,
				Message:             payload,
				Label:               label,
				ShuffleTransmission: shuffle,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "batch %s (seed %08x, %d tasks)\n", result.Batch.BatchID, result.Batch.SeedID, result.Batch.NumTasks)
			for _, id := range result.Batch.TransmissionOrder {
				_, _ = fmt.Fprintln(out, id)
			}

			if format != "none" {
				writer, ok := deps.Writers[format]
				if !ok {
					return fmt.Errorf("unknown output format %q", format)
				}
				path, err := writer.Write(cmd.Context(), domain.BatchArtifact{
					OutputDir: outputDir,
					Batch:     result.Batch,
				})
				if err != nil {
					return fmt.Errorf("write artifact: %w", err)
				}
				_, _ = fmt.Fprintf(out, "artifact written to %s\n", path)
			}
			return nil
		},
	}

	defaultOutput := deps.DefaultOutput
	if defaultOutput == "" {
		defaultOutput = "out"
	}
	defaultFormat := deps.DefaultFormat
	if defaultFormat == "" {
		defaultFormat = "json"
	}
	cmd.Flags().StringVar(&seedArg, "seed", "", "Seed identifier (decimal, or hex with 0x prefix)")
	cmd.Flags().IntVar(&count, "count", 0, "Number of task identifiers to generate (1-65536)")
	cmd.Flags().StringVar(&message, "message", "", "Message to embed across the batch")
	cmd.Flags().StringVar(&messageHex, "message-hex", "", "Message to embed, hex-encoded (mutually exclusive with --message)")
	cmd.Flags().StringVar(&label, "label", "", "Optional batch label")
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "Shuffle the transmission order of the emitted identifiers")
	cmd.Flags().StringVar(&outputDir, "output", defaultOutput, "Directory to write batch artifacts")
	cmd.Flags().StringVar(&format, "format", defaultFormat, "Artifact format (json, markdown, none)")
	cmd.Flags().StringVar(&pepperFlag, "pepper", "", "Secret pepper (prefer config or REARC_CODEC_PEPPER)")
	_ = cmd.MarkFlagRequired("seed")
	_ = cmd.MarkFlagRequired("count")

	return cmd
}

func decodeCommand(deps Dependencies) *cobra.Command {
	var inputFile string
	var messageLength int
	var pepperFlag string

	cmd := &cobra.Command{
		Use:   "decode [identifiers...]",
		Short: "Decode a batch back to its seed, generation order and message",
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.Verifier == nil {
				return fmt.Errorf("verifier not configured")
			}
			identifiers, err := collectIdentifiers(args, inputFile)
			if err != nil {
				return err
			}
			pepper, err := resolvePepper(pepperFlag, deps)
			if err != nil {
				return err
			}

			verification, err := deps.Verifier.VerifySubmission(cmd.Context(), verify.VerifyRequest{
				Identifiers:   identifiers,
				Pepper:        pepper,
				MessageLength: messageLength,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "seed: %08x\n", verification.SeedID)
			_, _ = fmt.Fprintf(out, "in original order: %t\n", verification.InOriginalOrder)
			if len(verification.Message) > 0 {
				_, _ = fmt.Fprintf(out, "message: %s\n", verification.Message)
			}
			_, _ = fmt.Fprintln(out, "generation order:")
			for _, id := range verification.OrderedIdentifiers {
				_, _ = fmt.Fprintln(out, id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputFile, "input", "", "File containing whitespace-separated identifiers")
	cmd.Flags().IntVar(&messageLength, "message-length", 0, "Length in bytes of the embedded message to extract")
	cmd.Flags().StringVar(&pepperFlag, "pepper", "", "Secret pepper (prefer config or REARC_CODEC_PEPPER)")

	return cmd
}

func recoverCommand(deps Dependencies) *cobra.Command {
	var inputFile string

	cmd := &cobra.Command{
		Use:   "recover [identifiers...]",
		Short: "Recover the seed from a batch without the pepper",
		Long:  "XORs the presented identifiers together; order does not matter and no secret is needed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.RecoverSeed == nil {
				return fmt.Errorf("seed recovery not configured")
			}
			identifiers, err := collectIdentifiers(args, inputFile)
			if err != nil {
				return err
			}
			seedID, err := deps.RecoverSeed(identifiers)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%08x\n", seedID)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputFile, "input", "", "File containing whitespace-separated identifiers")

	return cmd
}

func batchesCommand(lister BatchLister) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "batches",
		Short: "List previously generated batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if lister == nil {
				return fmt.Errorf("batch store is disabled; enable store.enabled in the config")
			}
			records, err := lister.ListBatches(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list batches: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				_, _ = fmt.Fprintln(out, "no batches recorded")
				return nil
			}
			for _, record := range records {
				label := record.Label
				if label == "" {
					label = "-"
				}
				_, _ = fmt.Fprintf(out, "%s  seed=%08x  tasks=%d  label=%s  created=%s\n",
					record.BatchID, record.SeedID, record.NumTasks, label,
					record.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of batches to list")

	return cmd
}

// parseSeedID accepts decimal or 0x-prefixed hex and enforces the 32-bit range.
func parseSeedID(raw string) (uint32, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("seed is required")
	}
	value, err := strconv.ParseUint(trimmed, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid seed %q: must be a 32-bit unsigned integer", raw)
	}
	return uint32(value), nil
}

func resolveMessage(message, messageHex string) ([]byte, error) {
	if message != "" && messageHex != "" {
		return nil, fmt.Errorf("--message and --message-hex are mutually exclusive")
	}
	if messageHex != "" {
		payload, err := hex.DecodeString(messageHex)
		if err != nil {
			return nil, fmt.Errorf("invalid --message-hex: %w", err)
		}
		return payload, nil
	}
	if message != "" {
		return []byte(message), nil
	}
	return nil, nil
}

// resolvePepper prefers the flag, then the configured value, then an
// interactive prompt. The flag exists for scripting; config or environment is
// the recommended channel so the secret stays out of shell history.
func resolvePepper(flagValue string, deps Dependencies) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if deps.DefaultPepper != "" {
		return deps.DefaultPepper, nil
	}
	if deps.PepperPrompt != nil {
		pepper, err := deps.PepperPrompt()
		if err != nil {
			return "", fmt.Errorf("read pepper: %w", err)
		}
		if pepper != "" {
			return pepper, nil
		}
	}
	return "", fmt.Errorf("no pepper configured; set codec.pepper in the config file or REARC_CODEC_PEPPER in the environment")
}

func collectIdentifiers(args []string, inputFile string) ([]string, error) {
	identifiers := append([]string(nil), args...)
	if inputFile != "" {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return nil, fmt.Errorf("read identifiers from %s: %w", inputFile, err)
		}
		identifiers = append(identifiers, strings.Fields(string(data))...)
	}
	if len(identifiers) == 0 {
		return nil, fmt.Errorf("no identifiers given; pass them as arguments or via --input")
	}
	return identifiers, nil
}
