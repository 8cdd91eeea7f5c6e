package splitfs

import (
	"context"
	"fmt"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/dendrascience/dendra-splitfs/util"
)

// DefaultFSName is the filesystem name shown in mount(8) output.
const DefaultFSName = "splitfs"

// MountOptions controls how a table is mounted.
type MountOptions struct {
	FSName      string // defaults to DefaultFSName
	Fingerprint bool   // append the table fingerprint to FSName
	AllowOther  bool
}

func (o MountOptions) fsName(table *util.PartTable) string {
	name := o.FSName
	if name == "" {
		name = DefaultFSName
	}
	if o.Fingerprint {
		name = fmt.Sprintf("%s-%s", name, table.Fingerprint())
	}
	return name
}

func (o MountOptions) fuseOptions(table *util.PartTable) []fuse.MountOption {
	opts := []fuse.MountOption{
		fuse.FSName(o.fsName(table)),
		fuse.Subtype("splitfs"),
	}
	if o.AllowOther {
		opts = append(opts, fuse.AllowOther())
	}
	return opts
}

// Mount serves table at mountpoint until the filesystem is
// unmounted or ctx is cancelled. The table is closed before Mount returns.
func Mount(ctx context.Context, table *util.PartTable, mountpoint string, opts MountOptions) error {
	defer table.Close()

	c, err := fuse.Mount(mountpoint, opts.fuseOptions(table)...)
	if err != nil {
		return fmt.Errorf("failed to mount %s: %w", mountpoint, err)
	}
	defer c.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			logger.Info("unmounting", "mountpoint", mountpoint)
			if err := fuse.Unmount(mountpoint); err != nil {
				logger.Warn("unmount failed", "mountpoint", mountpoint, "error", err)
			}
		case <-done:
		}
	}()

	logger.Info("serving",
		"mountpoint", mountpoint,
		"mode", table.Mode(),
		"entries", table.Len(),
		"size", table.TotalSize())
	if err := fs.Serve(c, NewFS(table)); err != nil {
		return fmt.Errorf("serve %s: %w", mountpoint, err)
	}
	return nil
}
