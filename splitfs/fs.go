package splitfs

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"syscall"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/dendrascience/dendra-splitfs/util"
)

var logger = slog.Default()

// direntPageSize bounds one ReadDir page. It holds any name the kernel
// accepts.
const direntPageSize = 4096

// SetLogger replaces the logger used by the filesystem.
func SetLogger(l *slog.Logger) {
	logger = l
}

// FS implements the splitfs FUSE filesystem on top of a part table
type FS struct {
	table   *util.PartTable
	root    *Dir
	files   map[util.Handle]*File // one node per entry, never rebuilt
	mounted time.Time
}

// NewFS creates a filesystem serving table. The table must not change
// shape afterwards; only renames are allowed.
func NewFS(table *util.PartTable) *FS {
	f := &FS{
		table:   table,
		files:   make(map[util.Handle]*File),
		mounted: time.Now(),
	}
	f.root = &Dir{fs: f}

	if table.Mode() == util.ModeJoin {
		f.files[util.WholeFileHandle] = &File{fs: f, handle: util.WholeFileHandle}
	} else {
		for i := range table.Len() {
			h := util.PartHandle(i)
			f.files[h] = &File{fs: f, handle: h}
		}
	}
	return f
}

// Root returns the root directory node
func (f *FS) Root() (fs.Node, error) {
	return f.root, nil
}

// Destroy releases the table's source descriptor.
func (f *FS) Destroy() {
	if err := f.table.Close(); err != nil {
		logger.Warn("failed to close source", "error", err)
	}
}

// attr fills a from the table's view of h.
func (f *FS) attr(h util.Handle, a *fuse.Attr) error {
	attr, err := f.table.Getattr(h)
	if err != nil {
		return toErrno(err)
	}
	a.Valid = 0
	a.Inode = uint64(attr.Handle)
	a.Mode = attr.Mode
	a.Size = attr.Size
	a.Blocks = (attr.Size + 511) / 512
	a.Nlink = 1
	if attr.Mode.IsDir() {
		a.Nlink = 2
	}
	a.Uid = uint32(os.Getuid())
	a.Gid = uint32(os.Getgid())
	a.Atime = f.mounted
	a.Mtime = f.mounted
	a.Ctime = f.mounted
	return nil
}

// Dir is the single directory of the mount. It is both node and handle.
type Dir struct {
	fs *FS
}

// Attr returns directory attributes
func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	return d.fs.attr(util.RootHandle, a)
}

// Lookup resolves a name in the root. Entries are not cached by the
// kernel so a rename is visible to the next lookup.
func (d *Dir) Lookup(ctx context.Context, req *fuse.LookupRequest, resp *fuse.LookupResponse) (fs.Node, error) {
	attr, err := d.fs.table.Lookup(req.Name)
	if err != nil {
		return nil, toErrno(err)
	}
	node, ok := d.fs.files[attr.Handle]
	if !ok {
		return nil, fuse.Errno(syscall.ESTALE)
	}
	resp.EntryValid = 0
	return node, nil
}

// ReadDirAll lists the directory by paging through the table from the
// first cookie.
func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	var dirents []fuse.Dirent
	var cookie uint64
	for {
		entries, next := d.fs.table.ReadDir(cookie, direntPageSize)
		if len(entries) == 0 {
			return dirents, nil
		}
		for _, e := range entries {
			dirents = append(dirents, fuse.Dirent{
				Inode: uint64(e.Handle),
				Type:  fuse.DT_File,
				Name:  e.Name,
			})
		}
		cookie = next
	}
}

// Rename changes an entry's name. There is only one directory, so the
// new parent is ignored.
func (d *Dir) Rename(ctx context.Context, req *fuse.RenameRequest, newDir fs.Node) error {
	if err := d.fs.table.Rename(req.OldName, req.NewName); err != nil {
		logger.Debug("rename refused", "from", req.OldName, "to", req.NewName, "error", err)
		return toErrno(err)
	}
	return nil
}

// Access grants every request; permission bits are advisory here.
func (d *Dir) Access(ctx context.Context, req *fuse.AccessRequest) error {
	return nil
}

// File is a part in split mode or the concatenated file in join mode.
type File struct {
	fs     *FS
	handle util.Handle
}

// Attr returns file attributes
func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	return f.fs.attr(f.handle, a)
}

// Read serves req.Size bytes at req.Offset.
func (f *File) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	data, err := f.fs.table.ReadAt(f.handle, req.Offset, req.Size)
	if err != nil {
		return toErrno(err)
	}
	resp.Data = data
	return nil
}

func (f *File) Access(ctx context.Context, req *fuse.AccessRequest) error {
	return nil
}

// toErrno maps table errors onto the errno the kernel is given.
func toErrno(err error) error {
	var ioErr *util.IOError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, util.ErrNotFound):
		return fuse.Errno(syscall.ENOENT)
	case errors.Is(err, util.ErrOutOfRange):
		return fuse.Errno(syscall.ERANGE)
	case errors.Is(err, util.ErrNameExists):
		return fuse.Errno(syscall.EEXIST)
	case errors.Is(err, util.ErrInvalidName):
		return fuse.Errno(syscall.EINVAL)
	case errors.Is(err, util.ErrIsDirectory):
		return fuse.Errno(syscall.EISDIR)
	case errors.Is(err, util.ErrInvalidHandle):
		return fuse.Errno(syscall.ESTALE)
	case errors.As(err, &ioErr):
		return fuse.Errno(ioErr.Errno)
	}
	logger.Warn("unmapped filesystem error", "error", err)
	return fuse.Errno(syscall.EIO)
}

var (
	_ fs.FS                  = (*FS)(nil)
	_ fs.FSDestroyer         = (*FS)(nil)
	_ fs.NodeRequestLookuper = (*Dir)(nil)
	_ fs.HandleReadDirAller  = (*Dir)(nil)
	_ fs.NodeRenamer         = (*Dir)(nil)
	_ fs.NodeAccesser        = (*Dir)(nil)
	_ fs.HandleReader        = (*File)(nil)
	_ fs.NodeAccesser        = (*File)(nil)
)
