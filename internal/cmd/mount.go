package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "bazil.org/fuse/fs/fstestutil"
	"github.com/dendrascience/dendra-splitfs/splitfs"
	"github.com/dendrascience/dendra-splitfs/util"
	"github.com/dendrascience/dendra-splitfs/version"
	"github.com/spf13/cobra"
)

// NewMountCmd creates and returns the mount subcommand for the splitfs CLI.
// It mounts a split or join view of its inputs at the last argument.
func NewMountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mount SOURCE MOUNTPOINT | mount INPUT... MOUNTPOINT",
		Short: "Mount a split or joined view of files",
		Long: `Mount a read-only splitfs filesystem at MOUNTPOINT.

With one SOURCE the mount shows the source as numbered parts
(part_001, part_002, ...) of --chunk-size bytes each.
With several INPUTs the mount shows a single file, named by --name,
whose content is the inputs concatenated in argument order.

Entries can be renamed inside the mount. Nothing is copied and the
backing files are never modified.`,
		Args: cobra.MinimumNArgs(2),
		Run:  runMount,
	}

	addTableFlags(cmd.Flags())
	cmd.Flags().String("fsname", splitfs.DefaultFSName, "Filesystem name shown by mount(8)")
	cmd.Flags().Bool("allow-other", false, "Allow other users to access the mount")

	return cmd
}

func runMount(cmd *cobra.Command, args []string) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configureLogging(cfg.LogLevel); err != nil {
		log.Fatal(err)
	}

	// Print version info on startup
	fmt.Printf("splitfs %s starting...\n", version.GetFullVersion())

	inputs, mountpoint := args[:len(args)-1], args[len(args)-1]

	forced, _ := cmd.Flags().GetString("mode")
	mode, err := detectMode(forced, len(inputs))
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}

	// Join mode reopens inputs by path on every read, so none may live
	// under the mountpoint.
	if mode == util.ModeJoin {
		for _, in := range inputs {
			if pathsOverlap(in, mountpoint) {
				log.Fatalf("Input %s overlaps mountpoint %s", in, mountpoint)
			}
		}
	}

	table, err := buildTable(mode, inputs, cfg)
	if err != nil {
		log.Fatalf("Failed to prepare %s mode: %v", mode, err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("splitfs %s mounting %s view of %d file(s) at %s", version.GetVersion(), mode, len(inputs), mountpoint)
	err = splitfs.Mount(ctx, table, mountpoint, splitfs.MountOptions{
		FSName:      cfg.FSName,
		Fingerprint: true,
		AllowOther:  cfg.AllowOther,
	})
	if err != nil {
		log.Fatal(err)
	}
	log.Println("Shutdown complete")
}
