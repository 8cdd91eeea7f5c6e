package util

import (
	"slices"
	"testing"
)

func listAll(table *PartTable, cookie uint64, maxBytes int) []DirEntry {
	var all []DirEntry
	for {
		entries, next := table.ReadDir(cookie, maxBytes)
		if len(entries) == 0 {
			return all
		}
		all = append(all, entries...)
		cookie = next
	}
}

func TestDirentSize(t *testing.T) {
	tests := map[string]int{
		"":          24,
		"a":         32,
		"part_001":  32,
		"12345678":  32,
		"123456789": 40,
	}
	for name, want := range tests {
		if got := DirentSize(name); got != want {
			t.Errorf("DirentSize(%q) = %d, want %d", name, got, want)
		}
	}
}

func TestReadDir_SplitUnlimited(t *testing.T) {
	table, _ := newSplit(t, 45, 10)

	entries, next := table.ReadDir(0, 1<<20)
	if len(entries) != 5 || next != 5 {
		t.Fatalf("ReadDir(0) returned %d entries, next %d; want 5, 5", len(entries), next)
	}
	for i, e := range entries {
		if e.Name != PartName(i) || e.Handle != PartHandle(i) || e.Cookie != uint64(i+1) {
			t.Errorf("entry %d = %+v", i, e)
		}
	}
}

func TestReadDir_Pagination(t *testing.T) {
	table, _ := newSplit(t, 95, 10) // 10 parts, 32 bytes each

	tests := []struct {
		name     string
		maxBytes int
		perPage  int
	}{
		{name: "one per page", maxBytes: 32, perPage: 1},
		{name: "one per page with slack", maxBytes: 63, perPage: 1},
		{name: "three per page", maxBytes: 96, perPage: 3},
		{name: "everything", maxBytes: 4096, perPage: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, next := table.ReadDir(0, tt.maxBytes)
			if len(first) != tt.perPage || next != uint64(tt.perPage) {
				t.Errorf("first page = %d entries, next %d; want %d", len(first), next, tt.perPage)
			}
			all := listAll(table, 0, tt.maxBytes)
			if len(all) != 10 {
				t.Fatalf("chained listing returned %d entries, want 10", len(all))
			}
			for i, e := range all {
				if e.Handle != PartHandle(i) {
					t.Errorf("entry %d handle = %d: skipped or duplicated entry", i, e.Handle)
				}
			}
		})
	}
}

func TestReadDir_BufferTooSmall(t *testing.T) {
	table, _ := newSplit(t, 30, 10)

	entries, next := table.ReadDir(1, 31)
	if len(entries) != 0 || next != 1 {
		t.Errorf("ReadDir with a too small buffer = %d entries, next %d; want 0, 1", len(entries), next)
	}
}

func TestReadDir_ResumeMatchesTail(t *testing.T) {
	table, _ := newSplit(t, 125, 10) // 13 parts
	full, _ := table.ReadDir(0, 1<<20)

	for cookie := range uint64(len(full) + 1) {
		for _, maxBytes := range []int{32, 70, 200, 1 << 20} {
			tail := listAll(table, cookie, maxBytes)
			if !slices.Equal(tail, full[cookie:]) {
				t.Errorf("listing from cookie %d with %d bytes = %v, want %v", cookie, maxBytes, tail, full[cookie:])
			}
		}
	}
}

func TestReadDir_PastEnd(t *testing.T) {
	table, _ := newSplit(t, 30, 10)

	for _, cookie := range []uint64{3, 4, 1000} {
		entries, next := table.ReadDir(cookie, 4096)
		if len(entries) != 0 {
			t.Errorf("ReadDir(%d) returned %d entries past the end", cookie, len(entries))
		}
		if next != cookie {
			t.Errorf("ReadDir(%d) next = %d", cookie, next)
		}
	}
}

func TestReadDir_JoinMode(t *testing.T) {
	table, _ := newJoin(t, 5, 5)

	entries, next := table.ReadDir(0, 4096)
	if len(entries) != 1 || next != 1 {
		t.Fatalf("ReadDir(0) = %d entries, next %d; want 1, 1", len(entries), next)
	}
	if entries[0].Name != DefaultWholeFileName || entries[0].Handle != WholeFileHandle {
		t.Errorf("entry = %+v", entries[0])
	}
	if more, _ := table.ReadDir(1, 4096); len(more) != 0 {
		t.Errorf("ReadDir(1) should end the listing, got %v", more)
	}
}

func TestReadDir_ReflectsRename(t *testing.T) {
	table, _ := newSplit(t, 30, 10)
	if err := table.Rename("part_002", "middle"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	entries, _ := table.ReadDir(0, 4096)
	if entries[1].Name != "middle" || entries[1].Handle != PartHandle(1) {
		t.Errorf("entry 1 after rename = %+v", entries[1])
	}
}
