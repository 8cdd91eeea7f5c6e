package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestWriteSeedFile(t *testing.T) {
	pool := []string{uuid.New().String(), uuid.New().String()}
	dir := t.TempDir()

	for _, size := range []int64{1, 36, 37, 38, 1000, 64 << 10} {
		path := filepath.Join(dir, "seed.txt")
		if err := writeSeedFile(path, size, pool); err != nil {
			t.Fatalf("writeSeedFile(%d) failed: %v", size, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read seed file: %v", err)
		}
		if int64(len(data)) != size {
			t.Errorf("seed file is %d bytes, want %d", len(data), size)
		}

		lines := strings.Split(string(data), "\n")
		for i, line := range lines[:len(lines)-1] {
			if line != pool[0] && line != pool[1] {
				t.Fatalf("line %d = %q is not from the pool", i, line)
			}
		}
		if last := lines[len(lines)-1]; !strings.HasPrefix(pool[0], last) && !strings.HasPrefix(pool[1], last) {
			t.Errorf("trailing partial line %q is not a UUID prefix", last)
		}
	}
}

func TestRunSeed(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	runSeed(dir, 3, 500, false)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 files, got %d", len(entries))
	}
	for i, e := range entries {
		want := []string{"seed_001.txt", "seed_002.txt", "seed_003.txt"}[i]
		if e.Name() != want {
			t.Errorf("file %d = %s, want %s", i, e.Name(), want)
		}
		info, _ := e.Info()
		if info.Size() != 500 {
			t.Errorf("%s is %d bytes, want 500", e.Name(), info.Size())
		}
	}
}
