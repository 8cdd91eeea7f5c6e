package util

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestHashManifest_Split(t *testing.T) {
	table, _ := newSplit(t, 95, 10)

	m := table.GenerateManifest(10)
	if len(m.Entries) != 10 || m.Mode != "split" || m.ChunkSize != 10 {
		t.Fatalf("manifest = %+v", m)
	}
	if err := table.HashManifest(context.Background(), &m, "", 3); err != nil {
		t.Fatalf("HashManifest failed: %v", err)
	}
	if m.HashAlgorithm != SHA256 {
		t.Errorf("HashAlgorithm = %q, want sha256", m.HashAlgorithm)
	}
	for _, e := range m.Entries {
		want, _ := table.HashEntry(context.Background(), e.Handle, SHA256)
		if e.Hash != want {
			t.Errorf("entry %s hash = %s, want %s", e.Name, e.Hash, want)
		}
	}
	if m.Hash != "" {
		t.Errorf("split manifest should not carry a whole file hash, got %s", m.Hash)
	}
}

func TestHashManifest_Join(t *testing.T) {
	table, _ := newJoin(t, 10, 20)

	m := table.GenerateManifest(0)
	if err := table.HashManifest(context.Background(), &m, BLAKE3, 0); err != nil {
		t.Fatalf("HashManifest failed: %v", err)
	}
	if m.Hash == "" {
		t.Error("join manifest should carry the whole file hash")
	}
	for _, e := range m.Entries {
		if e.Handle != 0 {
			t.Errorf("join entry %s should have no handle, got %d", e.Name, e.Handle)
		}
	}
	if m.WholeFileName != DefaultWholeFileName || m.Entries[1].Offset != 10 {
		t.Errorf("manifest = %+v", m)
	}
}

func TestHashManifest_UnknownAlgorithm(t *testing.T) {
	table, _ := newSplit(t, 10, 10)
	m := table.GenerateManifest(10)
	if err := table.HashManifest(context.Background(), &m, "crc32", 1); err == nil {
		t.Error("expected an error for an unknown algorithm")
	}
}

func TestCompareManifests(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "source.bin", pattern(50, 3))

	build := func() Manifest {
		table, err := NewSplitTable(path, 20)
		if err != nil {
			t.Fatalf("NewSplitTable failed: %v", err)
		}
		defer table.Close()
		m := table.GenerateManifest(20)
		if err := table.HashManifest(context.Background(), &m, SHA256, 2); err != nil {
			t.Fatalf("HashManifest failed: %v", err)
		}
		return m
	}

	want := build()

	manifestPath := filepath.Join(dir, "manifest.json")
	if err := WriteJSONFile(manifestPath, want); err != nil {
		t.Fatalf("WriteJSONFile failed: %v", err)
	}
	saved, err := ReadManifest(manifestPath)
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}
	if problems := CompareManifests(saved, build()); len(problems) != 0 {
		t.Errorf("unchanged source reported problems: %v", problems)
	}

	// Flip one byte in the middle part.
	data := pattern(50, 3)
	data[25] ^= 0xff
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to rewrite source: %v", err)
	}
	problems := CompareManifests(saved, build())
	if len(problems) != 1 {
		t.Fatalf("expected one problem, got %v", problems)
	}
	if problems[0][:7] != "entry 1" {
		t.Errorf("problem should name entry 1, got %q", problems[0])
	}
}

func TestCompareManifests_Shape(t *testing.T) {
	a := Manifest{Mode: "split", TotalSize: 10, HashAlgorithm: SHA256, Entries: []ManifestEntry{{Length: 10}}}
	b := Manifest{Mode: "join", TotalSize: 12, HashAlgorithm: SHA256, Entries: []ManifestEntry{{Length: 10}, {Length: 2}}}

	if problems := CompareManifests(a, b); len(problems) != 3 {
		t.Errorf("expected mode, size and count problems, got %v", problems)
	}

	b.HashAlgorithm = BLAKE3
	if problems := CompareManifests(a, b); len(problems) != 3 {
		t.Errorf("algorithm mismatch should stop before hashes, got %v", problems)
	}
}

func TestReadManifest_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadManifest(filepath.Join(dir, "missing.json")); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
	bad := writeFile(t, dir, "bad.json", []byte("{not json"))
	if _, err := ReadManifest(bad); err == nil {
		t.Error("expected a parse error")
	}
}
