package cmd

import (
	"context"

	"github.com/dendrascience/dendra-splitfs/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root cobra command for the splitfs CLI.
// It sets up all subcommands, command groups, and basic configuration.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "splitfs",
		Short: "splitfs - A FUSE filesystem that splits one file into parts or joins many into one",
		Long: `splitfs is a read-only FUSE filesystem that presents a different file
layout over unchanged data.

Split mode shows one large file as numbered parts of a fixed size.
Join mode shows several files as one concatenated file. Nothing is
copied: reads are routed to the backing files on demand.

Use subcommands to perform different operations:
  - mount: Mount a split or join view at a mountpoint
  - inspect: Show the layout a mount would have, optionally hashed
  - verify: Check backing files against a saved manifest
  - seed: Generate test files
  - version: Show version and build information`,
		Version: version.GetFullVersion(),
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default: $SPLITFS_CONFIG)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")

	groupUtilities := "utilities"
	groupFilesystem := "filesystem"

	// Add command groups for better organization
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupFilesystem,
		Title: "Filesystem Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	mountCmd := NewMountCmd()
	inspectCmd := NewInspectCmd()
	verifyCmd := NewVerifyCmd()
	seedCmd := NewSeedCmd()
	versionCmd := NewVersionCmd()

	mountCmd.GroupID = groupFilesystem
	inspectCmd.GroupID = groupUtilities
	verifyCmd.GroupID = groupUtilities
	seedCmd.GroupID = groupUtilities
	versionCmd.GroupID = groupUtilities

	// Add subcommands
	rootCmd.AddCommand(mountCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

// commandContext returns the context cmd was executed with.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
