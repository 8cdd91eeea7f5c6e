package util

import (
	"context"
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/taigrr/colorhash"
	"github.com/zeebo/blake3"
)

// hashBlockSize is how much each ReadAt asks for while hashing an entry.
const hashBlockSize = 1 << 20

// HashAlgorithm names a supported content hash.
type HashAlgorithm string

const (
	SHA256 HashAlgorithm = "sha256"
	BLAKE3 HashAlgorithm = "blake3"
)

// New returns a fresh hash.Hash for the algorithm.
func (a HashAlgorithm) New() (hash.Hash, error) {
	switch a {
	case SHA256, "":
		return sha256.New(), nil
	case BLAKE3:
		return blake3.New(), nil
	}
	return nil, fmt.Errorf("unknown hash algorithm %q", string(a))
}

// GetHash calculates the hash of data from an io.Reader.
// It returns the hash as a hexadecimal string.
func GetHash(r io.Reader, algo HashAlgorithm) (string, error) {
	h, err := algo.New()
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// entryReader streams an entry through ReadAt, the same path a mounted
// reader takes.
type entryReader struct {
	ctx    context.Context
	table  *PartTable
	handle Handle
	off    int64
	size   int64
}

func (r *entryReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	if r.off >= r.size {
		return 0, io.EOF
	}
	data, err := r.table.ReadAt(r.handle, r.off, min(len(p), hashBlockSize))
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, io.ErrUnexpectedEOF
	}
	r.off += int64(len(data))
	return copy(p, data), nil
}

// HashEntry hashes the full content of the entry h names by reading it
// through the table.
func (t *PartTable) HashEntry(ctx context.Context, h Handle, algo HashAlgorithm) (string, error) {
	attr, err := t.Getattr(h)
	if err != nil {
		return "", err
	}
	r := &entryReader{ctx: ctx, table: t, handle: h, size: int64(attr.Size)}
	return GetHash(r, algo)
}

// Fingerprint identifies the table layout by mode, backing paths and
// lengths. Names are left out so a rename does not change it. The result
// is a short "bucket-hex" string.
func (t *PartTable) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s;", t.mode)
	for _, p := range t.Parts() {
		fmt.Fprintf(&b, "%s:%d;", p.Path, p.Length)
	}
	layout := b.String()
	sum := sha256.Sum256([]byte(layout))
	bucket := colorhash.HashString(layout) % 1000
	if bucket < 0 {
		bucket = -bucket
	}
	return fmt.Sprintf("%03d-%x", bucket, sum[:4])
}
