// Package main provides the splitfs command-line interface.
//
// splitfs is a read-only FUSE filesystem that presents a different file layout
// over unchanged data. Split mode shows one large file as numbered 100 MiB
// parts; join mode shows several files as one concatenated file. Parts can be
// renamed inside the mount without touching the backing files.
//
// The main binary supports multiple subcommands:
//   - mount: Mount a split or join view at a mountpoint
//   - inspect: Show the layout a mount would have and write manifests
//   - verify: Check backing files against a saved manifest
//   - seed: Generate test files
//   - version: Show version and build information
package main
