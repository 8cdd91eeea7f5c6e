package util

import (
	"errors"

	"golang.org/x/sys/unix"
)

// ReadAt returns up to size bytes of the entry h names, starting at off.
// Short results are legitimate at end of data and are not padded.
func (t *PartTable) ReadAt(h Handle, off int64, size int) ([]byte, error) {
	e, err := t.Resolve(h)
	if err != nil {
		return nil, err
	}
	switch e.Kind {
	case KindRoot:
		return nil, ErrIsDirectory
	case KindPart:
		return t.readPart(e.Ordinal, off, size)
	default:
		return t.readWhole(off, size)
	}
}

// readPart serves a split-mode part from the shared source descriptor.
// The read is clipped to the part so it never returns bytes of the next one.
func (t *PartTable) readPart(i int, off int64, size int) ([]byte, error) {
	if off < 0 {
		return nil, ErrOutOfRange
	}
	length := t.parts[i].Length
	if off >= length || size <= 0 {
		return []byte{}, nil
	}

	buf := make([]byte, min(int64(size), length-off))
	t.srcMu.RLock()
	n, err := pread(t.sourceFd, buf, t.offsets[i]+off)
	t.srcMu.RUnlock()
	if err != nil {
		logger.Debug("part read failed", "part", i, "offset", off, "error", err)
		return nil, ioError("pread", t.parts[i].Path, err)
	}
	return buf[:n], nil
}

// readWhole serves the join-mode concatenation, crossing into following
// parts until size bytes are gathered or the data ends. A failure on any
// part fails the whole request.
func (t *PartTable) readWhole(off int64, size int) ([]byte, error) {
	i, local, ok := t.Locate(off)
	if !ok {
		return nil, ErrOutOfRange
	}

	buf := make([]byte, max(0, min(int64(size), t.TotalSize()-off)))
	total := 0
	for total < len(buf) && i < len(t.parts) {
		p := &t.parts[i]
		want := min(int64(len(buf)-total), p.Length-local)
		if want > 0 {
			n, err := readFileAt(p.Path, buf[total:total+int(want)], local)
			if err != nil {
				logger.Debug("whole file read failed", "part", i, "offset", local, "error", err)
				return nil, err
			}
			total += n
			if int64(n) < want {
				// Input shrank since startup; later parts would land at
				// the wrong offset.
				break
			}
		}
		i++
		local = 0
	}
	return buf[:total], nil
}

// readFileAt opens path, reads into dst at off and closes it again. No
// descriptor outlives the call.
func readFileAt(path string, dst []byte, off int64) (int, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return 0, ioError("open", path, err)
	}
	defer unix.Close(fd)

	n, err := pread(fd, dst, off)
	if err != nil {
		return 0, ioError("pread", path, err)
	}
	return n, nil
}

func pread(fd int, dst []byte, off int64) (int, error) {
	for {
		n, err := unix.Pread(fd, dst, off)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return 0, err
		}
		return n, nil
	}
}
