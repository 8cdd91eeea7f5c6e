package util

import (
	"bytes"
	"errors"
	"os"
	"sync"
	"syscall"
	"testing"
)

func TestReadAt_SplitPartsMatchSource(t *testing.T) {
	table, data := newSplit(t, 1000, 128)

	for i := range table.Len() {
		p := table.Part(i)
		base := table.Offset(i)
		for _, r := range []struct{ off, size int64 }{
			{0, p.Length},
			{1, 10},
			{p.Length - 1, 1},
			{p.Length / 2, p.Length},
		} {
			got, err := table.ReadAt(PartHandle(i), r.off, int(r.size))
			if err != nil {
				t.Fatalf("ReadAt(part %d, %d, %d) failed: %v", i, r.off, r.size, err)
			}
			end := min(base+r.off+r.size, base+p.Length)
			if want := data[base+r.off : end]; !bytes.Equal(got, want) {
				t.Errorf("ReadAt(part %d, %d, %d) returned %d bytes not matching the source", i, r.off, r.size, len(got))
			}
		}
	}
}

func TestReadAt_SplitStaysInsidePart(t *testing.T) {
	table, data := newSplit(t, 30, 10)

	got, err := table.ReadAt(PartHandle(0), 5, 100)
	if err != nil {
		t.Fatalf("ReadAt failed: %v", err)
	}
	if !bytes.Equal(got, data[5:10]) {
		t.Errorf("read past the end of part 0: got %d bytes", len(got))
	}

	got, err = table.ReadAt(PartHandle(1), 10, 5)
	if err != nil || len(got) != 0 {
		t.Errorf("read at part end = %d bytes, %v; want empty", len(got), err)
	}

	if _, err := table.ReadAt(PartHandle(1), -1, 5); err != ErrOutOfRange {
		t.Errorf("negative offset: expected ErrOutOfRange, got %v", err)
	}
}

func TestReadAt_SplitShortLastPart(t *testing.T) {
	table, data := newSplit(t, 25, 10)

	got, err := table.ReadAt(PartHandle(2), 0, 4096)
	if err != nil {
		t.Fatalf("ReadAt failed: %v", err)
	}
	if !bytes.Equal(got, data[20:]) {
		t.Errorf("last part = %d bytes, want 5", len(got))
	}
}

func TestReadAt_JoinAcrossBoundary(t *testing.T) {
	table, all := newJoin(t, 10, 10)

	got, err := table.ReadAt(WholeFileHandle, 5, 10)
	if err != nil {
		t.Fatalf("ReadAt failed: %v", err)
	}
	if !bytes.Equal(got, all[5:15]) {
		t.Errorf("got %v, want %v", got, all[5:15])
	}
}

func TestReadAt_JoinRanges(t *testing.T) {
	table, all := newJoin(t, 7, 0, 13, 1, 9)
	total := int64(len(all))

	tests := []struct {
		name string
		off  int64
		size int
	}{
		{name: "whole", off: 0, size: len(all)},
		{name: "more than available", off: 0, size: 4096},
		{name: "inside first part", off: 2, size: 3},
		{name: "ends on boundary", off: 3, size: 4},
		{name: "starts on boundary", off: 7, size: 5},
		{name: "spans four parts", off: 6, size: 20},
		{name: "last byte", off: total - 1, size: 1},
		{name: "zero length", off: 4, size: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.ReadAt(WholeFileHandle, tt.off, tt.size)
			if err != nil {
				t.Fatalf("ReadAt(%d, %d) failed: %v", tt.off, tt.size, err)
			}
			end := min(tt.off+int64(tt.size), total)
			if !bytes.Equal(got, all[tt.off:end]) {
				t.Errorf("ReadAt(%d, %d) = %v, want %v", tt.off, tt.size, got, all[tt.off:end])
			}
		})
	}
}

func TestReadAt_JoinOutOfRange(t *testing.T) {
	table, all := newJoin(t, 10, 10)

	for _, off := range []int64{int64(len(all)), int64(len(all)) + 1, -1} {
		if _, err := table.ReadAt(WholeFileHandle, off, 1); err != ErrOutOfRange {
			t.Errorf("ReadAt(%d) expected ErrOutOfRange, got %v", off, err)
		}
	}
}

func TestReadAt_JoinMissingInputFailsWholeRead(t *testing.T) {
	table, _ := newJoin(t, 10, 10)
	if err := os.Remove(table.Part(1).Path); err != nil {
		t.Fatalf("failed to remove input: %v", err)
	}

	// Part 0 is still readable on its own.
	if got, err := table.ReadAt(WholeFileHandle, 0, 10); err != nil || len(got) != 10 {
		t.Errorf("read within intact part = %d bytes, %v", len(got), err)
	}

	_, err := table.ReadAt(WholeFileHandle, 5, 10)
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *IOError, got %v", err)
	}
	if ioErr.Op != "open" || ioErr.Path != table.Part(1).Path {
		t.Errorf("IOError = %+v", ioErr)
	}
	if !errors.Is(err, syscall.ENOENT) {
		t.Errorf("IOError should carry ENOENT, got %v", ioErr.Errno)
	}
}

func TestReadAt_WrongHandles(t *testing.T) {
	split, _ := newSplit(t, 30, 10)
	join, _ := newJoin(t, 5)

	if _, err := split.ReadAt(RootHandle, 0, 1); err != ErrIsDirectory {
		t.Errorf("root read: expected ErrIsDirectory, got %v", err)
	}
	if _, err := split.ReadAt(WholeFileHandle, 0, 1); err != ErrInvalidHandle {
		t.Errorf("whole file in split mode: expected ErrInvalidHandle, got %v", err)
	}
	if _, err := join.ReadAt(PartHandle(0), 0, 1); err != ErrInvalidHandle {
		t.Errorf("part in join mode: expected ErrInvalidHandle, got %v", err)
	}
}

func TestReadAt_AfterClose(t *testing.T) {
	table, _ := newSplit(t, 30, 10)
	table.Close()

	_, err := table.ReadAt(PartHandle(0), 0, 5)
	var ioErr *IOError
	if !errors.As(err, &ioErr) || ioErr.Errno != syscall.EBADF {
		t.Errorf("read after Close: expected EBADF IOError, got %v", err)
	}
}

func TestReadAt_Concurrent(t *testing.T) {
	split, data := newSplit(t, 4096, 100)
	join, all := newJoin(t, 300, 500, 200)

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 50 {
				part := (g + i) % split.Len()
				got, err := split.ReadAt(PartHandle(part), 3, 50)
				base := split.Offset(part)
				end := min(base+53, base+split.Part(part).Length)
				if err != nil || !bytes.Equal(got, data[base+3:end]) {
					t.Errorf("concurrent split read of part %d failed: %v", part, err)
					return
				}

				off := int64((g*97 + i*13) % len(all))
				got, err = join.ReadAt(WholeFileHandle, off, 400)
				if err != nil || !bytes.Equal(got, all[off:min(off+400, int64(len(all)))]) {
					t.Errorf("concurrent join read at %d failed: %v", off, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestReadAt_JoinShrunkInputStopsShort(t *testing.T) {
	table, all := newJoin(t, 10, 10)
	if err := os.Truncate(table.Part(0).Path, 6); err != nil {
		t.Fatalf("failed to truncate input: %v", err)
	}

	got, err := table.ReadAt(WholeFileHandle, 2, 15)
	if err != nil {
		t.Fatalf("ReadAt failed: %v", err)
	}
	if !bytes.Equal(got, all[2:6]) {
		t.Errorf("got %v, want the 4 bytes still present in the first input", got)
	}
}

func TestReadAt_CloseDuringReads(t *testing.T) {
	table, data := newSplit(t, 4096, 100)
	other := writeFile(t, t.TempDir(), "other.bin", pattern(4096, 200))

	var wg sync.WaitGroup
	for g := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				part := (g + i) % table.Len()
				got, err := table.ReadAt(PartHandle(part), 0, 100)
				if err != nil {
					var ioErr *IOError
					if !errors.As(err, &ioErr) || ioErr.Errno != syscall.EBADF {
						t.Errorf("read of part %d: expected data or EBADF, got %v", part, err)
						return
					}
					continue
				}
				base := table.Offset(part)
				if !bytes.Equal(got, data[base:base+100]) {
					t.Errorf("read of part %d returned bytes from another file", part)
					return
				}
			}
		}()
	}

	if err := table.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	// Likely reuses the source's descriptor number.
	for range 20 {
		f, err := os.Open(other)
		if err != nil {
			t.Fatalf("failed to open file: %v", err)
		}
		defer f.Close()
	}
	wg.Wait()
}
