// Package splitfs implements a read-only FUSE filesystem that presents a
// different file layout over unchanged backing data.
//
// Two layouts are supported:
//   - split: one large source file appears as numbered parts
//     (part_001, part_002, ...) of a fixed chunk size
//   - join: several input files appear as one concatenated file
//
// No data is copied. Every read is routed to the backing file and offset
// that hold the requested bytes. Entries can be renamed; renames only
// change the displayed name and are lost on unmount.
//
// The layout itself lives in util.PartTable. This package adapts it to the
// bazil.org/fuse node interfaces and mounts it with Mount().
package splitfs
