package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dendrascience/dendra-splitfs/util"
	"github.com/spf13/cobra"
)

var (
	errManifestUnhashed = errors.New("manifest has no hashes, create it with inspect --hash")
	errManifestNoInputs = errors.New("manifest lists no entries, pass the inputs explicitly")
)

// NewVerifyCmd creates and returns the verify subcommand for the splitfs CLI.
// It checks backing files against a manifest written by inspect.
func NewVerifyCmd() *cobra.Command {
	var (
		manifestPath string
		workers      int
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "verify --manifest FILE [INPUT...]",
		Short: "Verify backing files against a saved manifest",
		Long: `Verify that the files behind a split or join view still hold the
data recorded in a manifest.

The manifest must have been written with inspect --hash --output. Every
entry is read through the same routing a mount uses, hashed with the
manifest's algorithm and compared. Without INPUT arguments the backing
paths recorded in the manifest are used.

Exits non-zero when anything differs.`,
		Run: func(cmd *cobra.Command, args []string) {
			runVerify(cmd, manifestPath, args, workers, verbose)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "f", "", "Path to the manifest JSON (required)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent hash workers (default: number of CPUs)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("manifest")

	return cmd
}

func runVerify(cmd *cobra.Command, manifestPath string, inputs []string, workers int, verbose bool) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configureLogging(cfg.LogLevel); err != nil {
		log.Fatal(err)
	}

	want, err := util.ReadManifest(manifestPath)
	if err != nil {
		log.Fatalf("Failed to read manifest: %v", err)
	}
	if verbose {
		fmt.Printf("Verifying %d %s entries against %s (%s)\n", len(want.Entries), want.Mode, manifestPath, want.HashAlgorithm)
	}

	problems, err := verifyManifest(commandContext(cmd), want, inputs, workers)
	if err != nil {
		log.Fatalf("Verification failed: %v", err)
	}
	if len(problems) > 0 {
		fmt.Printf("Found %d problems:\n", len(problems))
		for _, p := range problems {
			fmt.Printf("  - %s\n", p)
		}
		os.Exit(1)
	}
	fmt.Printf("All %d entries match %s\n", len(want.Entries), manifestPath)
}

// verifyManifest rebuilds the table want describes, hashes it and returns
// every difference.
func verifyManifest(ctx context.Context, want util.Manifest, inputs []string, workers int) ([]string, error) {
	if want.HashAlgorithm == "" {
		return nil, errManifestUnhashed
	}
	mode, err := util.ParseMode(want.Mode)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		inputs = manifestInputs(want, mode)
		if len(inputs) == 0 {
			return nil, errManifestNoInputs
		}
	}

	cfg := defaultConfig()
	if want.ChunkSize > 0 {
		cfg.ChunkSize = ByteSize(want.ChunkSize)
	}
	if want.WholeFileName != "" {
		cfg.WholeFileName = want.WholeFileName
	}
	table, err := buildTable(mode, inputs, cfg)
	if err != nil {
		return nil, err
	}
	defer table.Close()

	got := table.GenerateManifest(int64(cfg.ChunkSize))
	if err := table.HashManifest(ctx, &got, want.HashAlgorithm, workers); err != nil {
		return nil, err
	}
	return util.CompareManifests(want, got), nil
}

// manifestInputs recovers the backing paths recorded in m.
func manifestInputs(m util.Manifest, mode util.Mode) []string {
	if len(m.Entries) == 0 {
		return nil
	}
	if mode == util.ModeSplit {
		return []string{m.Entries[0].Path}
	}
	paths := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		paths[i] = e.Path
	}
	return paths
}
