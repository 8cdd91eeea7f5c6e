package cmd

import (
	"bufio"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewSeedCmd creates and returns the seed subcommand for the splitfs CLI.
// It writes test files to split or join.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath string
		fileCount  int
		verbose    bool
	)
	size := ByteSize(1 << 20)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate test files to mount",
		Long: `Generate files for trying out splitfs.

Creates --count files named seed_001.txt, seed_002.txt, ... of exactly
--size bytes each. Every file is made of UUID lines, so a misplaced
byte range is easy to spot. Use one large file to try split mode and
several to try join mode.`,
		Run: func(cmd *cobra.Command, args []string) {
			runSeed(outputPath, fileCount, int64(size), verbose)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&fileCount, "count", "c", 1, "Number of files to generate")
	cmd.Flags().VarP(&size, "size", "s", "Size of each file, e.g. 250MiB")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("output")

	return cmd
}

func runSeed(outputPath string, fileCount int, size int64, verbose bool) {
	if verbose {
		fmt.Printf("Generating %d test files of %d bytes in %s\n", fileCount, size, outputPath)
	}

	// Create output directory
	if err := os.MkdirAll(outputPath, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Generate pool of 50 UUIDs
	uuidPool := make([]string, 50)
	for i := range uuidPool {
		uuidPool[i] = uuid.New().String()
	}

	for i := range fileCount {
		path := filepath.Join(outputPath, fmt.Sprintf("seed_%03d.txt", i+1))
		if err := writeSeedFile(path, size, uuidPool); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		if verbose {
			fmt.Printf("Created %s\n", path)
		}
	}

	if verbose {
		fmt.Printf("Successfully created %d files\n", fileCount)
	}
}

// writeSeedFile fills path with random UUID lines from pool, cutting the
// last line so the file is exactly size bytes.
func writeSeedFile(path string, size int64, pool []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)

	var written int64
	for written < size {
		line := pool[rand.IntN(len(pool))] + "\n"
		if remaining := size - written; int64(len(line)) > remaining {
			line = line[:remaining]
		}
		n, err := w.WriteString(line)
		written += int64(n)
		if err != nil {
			f.Close()
			return err
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
