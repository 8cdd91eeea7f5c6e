// Package util provides the core engine of the splitfs filesystem.
//
// Everything the FUSE layer needs to answer a request lives here, independent
// of any FUSE binding, so it can be exercised directly from tests and from the
// inspect/verify commands.
//
// Key Components:
//
// Part Table:
//   - PartTable and Part types describing the ordered chunks behind a mount
//   - Split mode: one source file cut into fixed-size parts (100 MiB default)
//   - Join mode: several input files presented as one concatenated file
//   - Prefix sums for O(log n) offset location
//
// Handles:
//   - Session-stable Handle values derived from ordinals, never from memory
//   - Reserved handles for the root directory and the join-mode whole file
//   - Lookup and Getattr resolution against current names
//
// Directory Listing:
//   - Cookie-based, restartable pagination bounded by a byte budget
//   - Entry sizes matching the kernel's fuse_dirent layout
//
// Reads:
//   - Positioned reads against the split-mode source descriptor
//   - Join-mode reads that cross part boundaries, opening each backing file
//     only for the duration of one call
//
// Renames:
//   - Display-name changes with collision rejection
//
// Manifests and Verification:
//   - JSON manifests of a layout with optional per-entry hashes
//   - SHA-256 and BLAKE3 hashing through the same read path a mount uses
//
// Name reads and writes go through one RWMutex per table; lengths, ordinals
// and paths are immutable and read without locking.
package util
