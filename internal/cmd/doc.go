// Package cmd provides the command-line interface implementation for splitfs.
//
// This package contains all the subcommand implementations for the splitfs CLI tool.
// It uses the Cobra library for command structure and Fang for styling.
//
// The package is organized into the following commands:
//   - root: Main command coordinator and entry point
//   - mount: FUSE mounting of a split or join view
//   - inspect: Layout listing and manifest generation
//   - verify: Manifest checking of backing files
//   - seed: Test file generation
//
// Settings shared by the commands are resolved in config.go: defaults, then an
// optional YAML file, then SPLITFS_* environment variables, then flags.
//
// The package leverages the util package for the part table and the splitfs
// package for the filesystem implementation.
package cmd
