package util

import (
	"os"
)

// Handle is the session-stable identifier of a directory entry. It is also
// the inode number reported to the kernel.
type Handle uint64

const (
	// RootHandle is the mount's root directory (FUSE_ROOT_ID).
	RootHandle Handle = 1
	// WholeFileHandle is the join-mode concatenated file.
	WholeFileHandle Handle = 2

	firstPartHandle Handle = 3
)

const (
	fileMode = 0o444 // RO
	dirMode  = 0o555 // RO
)

// PartHandle returns the handle of the part at ordinal. Handles derive
// from ordinals only, so they survive renames.
func PartHandle(ordinal int) Handle {
	return firstPartHandle + Handle(ordinal)
}

// EntryKind tags what a handle resolves to.
type EntryKind int

const (
	KindRoot EntryKind = iota
	KindPart
	KindWholeFile
)

func (k EntryKind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindPart:
		return "part"
	case KindWholeFile:
		return "whole"
	}
	return "unknown"
}

// Entry is the resolved form of a handle. Ordinal is meaningful for
// KindPart only.
type Entry struct {
	Kind    EntryKind
	Ordinal int
}

// Attributes describe an entry the way getattr and lookup replies need.
type Attributes struct {
	Handle Handle
	Kind   EntryKind
	Name   string
	Mode   os.FileMode
	Size   uint64
}

// Resolve maps h to the entity it names in this table's mode.
func (t *PartTable) Resolve(h Handle) (Entry, error) {
	switch {
	case h == RootHandle:
		return Entry{Kind: KindRoot}, nil
	case h == WholeFileHandle:
		if t.mode != ModeJoin {
			return Entry{}, ErrInvalidHandle
		}
		return Entry{Kind: KindWholeFile}, nil
	case h >= firstPartHandle:
		if t.mode != ModeSplit {
			return Entry{}, ErrInvalidHandle
		}
		i := h - firstPartHandle
		if i >= Handle(len(t.parts)) {
			return Entry{}, ErrInvalidHandle
		}
		return Entry{Kind: KindPart, Ordinal: int(i)}, nil
	}
	return Entry{}, ErrInvalidHandle
}

// Lookup finds the root directory entry currently called name.
func (t *PartTable) Lookup(name string) (Attributes, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.mode == ModeJoin {
		if name != t.wholeName {
			return Attributes{}, ErrNotFound
		}
		return t.wholeAttrLocked(), nil
	}
	i, ok := t.byName[name]
	if !ok {
		return Attributes{}, ErrNotFound
	}
	return t.partAttrLocked(i), nil
}

// Getattr returns the attributes of the entity h names.
func (t *PartTable) Getattr(h Handle) (Attributes, error) {
	e, err := t.Resolve(h)
	if err != nil {
		return Attributes{}, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	switch e.Kind {
	case KindRoot:
		return Attributes{
			Handle: RootHandle,
			Kind:   KindRoot,
			Mode:   os.ModeDir | dirMode,
		}, nil
	case KindWholeFile:
		return t.wholeAttrLocked(), nil
	default:
		return t.partAttrLocked(e.Ordinal), nil
	}
}

func (t *PartTable) wholeAttrLocked() Attributes {
	return Attributes{
		Handle: WholeFileHandle,
		Kind:   KindWholeFile,
		Name:   t.wholeName,
		Mode:   fileMode,
		Size:   uint64(t.TotalSize()),
	}
}

func (t *PartTable) partAttrLocked(i int) Attributes {
	p := t.parts[i]
	return Attributes{
		Handle: PartHandle(i),
		Kind:   KindPart,
		Name:   p.Name,
		Mode:   fileMode,
		Size:   uint64(p.Length),
	}
}
