package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/dendrascience/dendra-splitfs/util"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewInspectCmd creates and returns the inspect subcommand for the splitfs CLI.
// It shows the layout a mount would have without mounting anything.
func NewInspectCmd() *cobra.Command {
	var (
		asJSON     bool
		outputPath string
		hash       bool
		algo       string
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "inspect SOURCE | inspect INPUT...",
		Short: "Show the part layout of a split or join view",
		Long: `Show the layout a mount of the same arguments would present:
entry names, their offsets into the combined data, lengths and backing
files.

With --hash every entry is read through the same routing a mount uses
and hashed. A manifest written with --json --output can later be checked
with the verify command.`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			if err := configureLogging(cfg.LogLevel); err != nil {
				log.Fatal(err)
			}
			forced, _ := cmd.Flags().GetString("mode")
			mode, err := detectMode(forced, len(args))
			if err != nil {
				log.Fatalf("Invalid arguments: %v", err)
			}
			table, err := buildTable(mode, args, cfg)
			if err != nil {
				log.Fatalf("Failed to prepare %s mode: %v", mode, err)
			}
			defer table.Close()

			m := table.GenerateManifest(int64(cfg.ChunkSize))
			if hash {
				if err := table.HashManifest(commandContext(cmd), &m, util.HashAlgorithm(algo), workers); err != nil {
					log.Fatalf("Failed to hash entries: %v", err)
				}
			}

			switch {
			case outputPath != "":
				if err := util.WriteJSONFile(outputPath, m); err != nil {
					log.Fatalf("Failed to write manifest: %v", err)
				}
				fmt.Printf("Wrote manifest for %d entries to %s\n", len(m.Entries), outputPath)
			case asJSON:
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(m); err != nil {
					log.Fatal(err)
				}
			default:
				printLayout(os.Stdout, m)
			}
		},
	}

	addTableFlags(cmd.Flags())
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Print the manifest as JSON")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the JSON manifest to a file")
	cmd.Flags().BoolVar(&hash, "hash", false, "Hash every entry")
	cmd.Flags().StringVarP(&algo, "algo", "a", string(util.SHA256), "Hash algorithm: sha256 or blake3")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent hash workers (default: number of CPUs)")

	return cmd
}

// printLayout writes a human readable table of the manifest to w.
func printLayout(w io.Writer, m util.Manifest) {
	fmt.Fprintf(w, "Mode:        %s\n", m.Mode)
	fmt.Fprintf(w, "Fingerprint: %s\n", m.Fingerprint)
	fmt.Fprintf(w, "Total size:  %s (%d bytes)\n", humanize.IBytes(uint64(m.TotalSize)), m.TotalSize)
	if m.Mode == util.ModeSplit.String() {
		fmt.Fprintf(w, "Chunk size:  %s\n", humanize.IBytes(uint64(m.ChunkSize)))
	} else {
		fmt.Fprintf(w, "Whole file:  %s\n", m.WholeFileName)
		if m.Hash != "" {
			fmt.Fprintf(w, "Hash (%s): %s\n", m.HashAlgorithm, m.Hash)
		}
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tOFFSET\tLENGTH\tSIZE\tPATH\tHASH")
	for _, e := range m.Entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%s\t%s\n",
			e.Ordinal, e.Name, e.Offset, e.Length, humanize.IBytes(uint64(e.Length)), e.Path, e.Hash)
	}
	tw.Flush()
}
