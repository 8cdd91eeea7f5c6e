package util

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// DefaultChunkSize is the length of every split-mode part except the last.
const DefaultChunkSize int64 = 100 * 1024 * 1024

// DefaultWholeFileName is the join-mode entry name when none is configured.
const DefaultWholeFileName = "full_file"

// logger is the package-level logger for table construction and reads
var logger = slog.Default()

// SetLogger sets the logger for the util package
func SetLogger(l *slog.Logger) {
	logger = l
}

// Mode selects how the part table maps onto the virtual directory.
type Mode int

const (
	// ModeSplit exposes one source file as many part files.
	ModeSplit Mode = iota
	// ModeJoin exposes many input files as one whole file.
	ModeJoin
)

func (m Mode) String() string {
	switch m {
	case ModeSplit:
		return "split"
	case ModeJoin:
		return "join"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts "split" or "join" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "split":
		return ModeSplit, nil
	case "join":
		return ModeJoin, nil
	}
	return 0, fmt.Errorf("unknown mode %q (want split or join)", s)
}

// Part is one logical chunk of the split or joined data.
type Part struct {
	Name    string `json:"name"`    // display name, changed by Rename
	Length  int64  `json:"length"`  // byte count, fixed at construction
	Ordinal int    `json:"ordinal"` // position in concatenation order
	Path    string `json:"path"`    // canonical path of the backing file
}

// PartTable is the ordered set of parts behind one mount. Lengths,
// ordinals and paths never change after construction; names are guarded
// by mu.
type PartTable struct {
	mode    Mode
	parts   []Part
	offsets []int64 // offsets[i] is the sum of lengths of parts before i

	srcMu    sync.RWMutex // held for reading across every pread on sourceFd
	source   *os.File     // split mode source, open for the whole session
	sourceFd int

	mu        sync.RWMutex
	byName    map[string]int
	wholeName string
}

// PartName returns the split-mode name of the part at ordinal.
func PartName(ordinal int) string {
	return fmt.Sprintf("part_%03d", ordinal+1)
}

// NewSplitTable opens path and partitions it into parts of chunkSize
// bytes. The source stays open until Close.
func NewSplitTable(path string, chunkSize int64) (*PartTable, error) {
	if chunkSize <= 0 {
		return nil, ErrInvalidChunkSize
	}
	abs, err := canonicalPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open source %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat source %s: %w", path, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("source %s: %w", path, ErrExpectedFile)
	}

	var parts []Part
	remaining := info.Size()
	for ordinal := 0; remaining > 0; ordinal++ {
		n := min(remaining, chunkSize)
		parts = append(parts, Part{
			Name:    PartName(ordinal),
			Length:  n,
			Ordinal: ordinal,
			Path:    abs,
		})
		remaining -= n
	}

	t := newPartTable(ModeSplit, parts, "")
	t.source = f
	t.sourceFd = int(f.Fd())
	logger.Info("split table built", "source", abs, "size", info.Size(), "parts", len(parts), "chunk_size", chunkSize)
	return t, nil
}

// NewJoinTable stats every input in order and builds one part per input.
// wholeName names the concatenated entry; empty means DefaultWholeFileName.
func NewJoinTable(paths []string, wholeName string) (*PartTable, error) {
	if len(paths) == 0 {
		return nil, ErrNoInputs
	}
	if wholeName == "" {
		wholeName = DefaultWholeFileName
	}
	if err := validName(wholeName); err != nil {
		return nil, err
	}

	parts := make([]Part, 0, len(paths))
	for i, p := range paths {
		abs, err := canonicalPath(p)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("failed to stat input %s: %w", p, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("input %s: %w", p, ErrExpectedFile)
		}
		parts = append(parts, Part{
			Name:    filepath.Base(abs),
			Length:  info.Size(),
			Ordinal: i,
			Path:    abs,
		})
	}

	t := newPartTable(ModeJoin, parts, wholeName)
	logger.Info("join table built", "inputs", len(parts), "size", t.TotalSize(), "name", wholeName)
	return t, nil
}

func newPartTable(mode Mode, parts []Part, wholeName string) *PartTable {
	t := &PartTable{
		mode:      mode,
		parts:     parts,
		offsets:   make([]int64, len(parts)+1),
		wholeName: wholeName,
		byName:    make(map[string]int, len(parts)),
		sourceFd:  -1,
	}
	for i, p := range parts {
		t.offsets[i+1] = t.offsets[i] + p.Length
	}
	if mode == ModeSplit {
		for i, p := range parts {
			t.byName[p.Name] = i
		}
	}
	return t
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return resolved, nil
}

// Mode reports whether the table splits or joins.
func (t *PartTable) Mode() Mode {
	return t.mode
}

// Len returns the number of parts.
func (t *PartTable) Len() int {
	return len(t.parts)
}

// Part returns a copy of the part at ordinal i. The zero Part is returned
// for an out of range ordinal.
func (t *PartTable) Part(i int) Part {
	if i < 0 || i >= len(t.parts) {
		return Part{}
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.parts[i]
}

// Parts returns a snapshot of all parts in ordinal order.
func (t *PartTable) Parts() []Part {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Part, len(t.parts))
	copy(out, t.parts)
	return out
}

// Iterate yields a snapshot of every part in ordinal order. The table lock
// is not held while yielding, so the loop body may call Rename.
func (t *PartTable) Iterate(yield func(Part) bool) {
	for _, p := range t.Parts() {
		if !yield(p) {
			return
		}
	}
}

// TotalSize is the sum of all part lengths.
func (t *PartTable) TotalSize() int64 {
	return t.offsets[len(t.parts)]
}

// Offset returns the absolute offset at which part i starts.
func (t *PartTable) Offset(i int) int64 {
	return t.offsets[i]
}

// Locate finds the part holding absolute offset off and the offset local
// to that part. Zero-length parts never match. ok is false when off is
// outside [0, TotalSize()).
func (t *PartTable) Locate(off int64) (ordinal int, local int64, ok bool) {
	if off < 0 || off >= t.TotalSize() {
		return 0, 0, false
	}
	i := sort.Search(len(t.parts), func(i int) bool {
		return t.offsets[i+1] > off
	})
	return i, off - t.offsets[i], true
}

// WholeFileName returns the current join-mode entry name. It is empty in
// split mode.
func (t *PartTable) WholeFileName() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.wholeName
}

// Close releases the split-mode source descriptor.
// Reads still in flight finish before the descriptor is released.
func (t *PartTable) Close() error {
	t.srcMu.Lock()
	defer t.srcMu.Unlock()
	if t.source == nil {
		return nil
	}
	err := t.source.Close()
	t.source = nil
	t.sourceFd = -1
	return err
}
