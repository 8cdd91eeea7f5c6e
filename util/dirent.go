package util

// direntHeaderSize is sizeof(struct fuse_dirent) without the name.
const direntHeaderSize = 24

// DirEntry is one listed entry. Cookie is the offset a listing resumes
// from to continue after this entry.
type DirEntry struct {
	Name   string
	Handle Handle
	Cookie uint64
}

// DirentSize is the number of bytes an entry called name occupies in a
// directory read reply.
func DirentSize(name string) int {
	return (direntHeaderSize + len(name) + 7) &^ 7
}

// ReadDir lists root entries starting at index cookie, taking as many as
// fit in maxBytes of encoded dirents. next is the index of the first entry
// not returned; an empty result means the listing is complete.
func (t *PartTable) ReadDir(cookie uint64, maxBytes int) (entries []DirEntry, next uint64) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.mode == ModeJoin {
		if cookie != 0 || DirentSize(t.wholeName) > maxBytes {
			return nil, cookie
		}
		return []DirEntry{{Name: t.wholeName, Handle: WholeFileHandle, Cookie: 1}}, 1
	}

	used := 0
	next = cookie
	for next < uint64(len(t.parts)) {
		name := t.parts[next].Name
		size := DirentSize(name)
		if used+size > maxBytes {
			break
		}
		used += size
		entries = append(entries, DirEntry{
			Name:   name,
			Handle: PartHandle(int(next)),
			Cookie: next + 1,
		})
		next++
	}
	return entries, next
}
