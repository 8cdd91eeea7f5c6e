package util

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// HashManifest fills in content hashes for m, which must describe t. Split
// parts are hashed concurrently with at most workers readers; join mode
// hashes the concatenated file once. workers <= 0 means one per CPU.
func (t *PartTable) HashManifest(ctx context.Context, m *Manifest, algo HashAlgorithm, workers int) error {
	if _, err := algo.New(); err != nil {
		return err
	}
	if algo == "" {
		algo = SHA256
	}
	m.HashAlgorithm = algo

	if t.mode == ModeJoin {
		sum, err := t.HashEntry(ctx, WholeFileHandle, algo)
		if err != nil {
			return fmt.Errorf("hashing %s: %w", m.WholeFileName, err)
		}
		m.Hash = sum
		return nil
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range m.Entries {
		e := &m.Entries[i]
		g.Go(func() error {
			sum, err := t.HashEntry(ctx, PartHandle(e.Ordinal), algo)
			if err != nil {
				return fmt.Errorf("hashing %s: %w", e.Name, err)
			}
			e.Hash = sum
			return nil
		})
	}
	return g.Wait()
}

// CompareManifests lists every way got differs from want. Names and
// backing paths are not compared: names reset on every mount and inputs
// may legitimately move.
func CompareManifests(want, got Manifest) []string {
	var problems []string

	if want.Mode != got.Mode {
		problems = append(problems, fmt.Sprintf("mode mismatch: expected %s, got %s", want.Mode, got.Mode))
	}
	if want.TotalSize != got.TotalSize {
		problems = append(problems, fmt.Sprintf("total size mismatch: expected %d, got %d", want.TotalSize, got.TotalSize))
	}
	if want.HashAlgorithm != got.HashAlgorithm {
		problems = append(problems, fmt.Sprintf("hash algorithm mismatch: expected %s, got %s", want.HashAlgorithm, got.HashAlgorithm))
		return problems
	}
	if want.Hash != got.Hash {
		problems = append(problems, fmt.Sprintf("content hash mismatch: expected %s, got %s", want.Hash, got.Hash))
	}
	if len(want.Entries) != len(got.Entries) {
		problems = append(problems, fmt.Sprintf("entry count mismatch: expected %d, got %d", len(want.Entries), len(got.Entries)))
	}

	for i := range min(len(want.Entries), len(got.Entries)) {
		w, g := want.Entries[i], got.Entries[i]
		if w.Length != g.Length {
			problems = append(problems, fmt.Sprintf("entry %d length mismatch: expected %d, got %d", i, w.Length, g.Length))
		}
		if w.Hash != g.Hash {
			problems = append(problems, fmt.Sprintf("entry %d hash mismatch: expected %s, got %s", i, w.Hash, g.Hash))
		}
	}
	return problems
}
