package directory

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/weberc2/myfs/pkg/alloc"
	"github.com/weberc2/myfs/pkg/inode/store"
	. "github.com/weberc2/myfs/pkg/types"
)

// Grow moves the directory's content into a fresh zero-padded extent of
// `newSize` bytes and updates `dir` in place. The inode passes through the
// unallocated state on disk so the allocator may reuse the old extent. If
// no extent is found the previous record is restored; only a device failure
// between the steps leaves the unallocated waypoint behind.
func Grow(fs *FileSystem, dir *Inode, newSize Byte) error {
	oldSize := Byte(0)
	if dir.State == InodeAllocated {
		oldSize = dir.Size
	}
	if newSize < oldSize || newSize < 1 {
		return fmt.Errorf(
			"growing dir `%d` from `%d` to `%d` bytes: %w",
			dir.Index,
			oldSize,
			newSize,
			InvalidExtentSizeErr,
		)
	}

	staged := make([]byte, newSize)
	if oldSize > 0 {
		if err := fs.Volume.ReadAt(dir.Address, staged[:oldSize]); err != nil {
			return fmt.Errorf(
				"growing dir `%d`: staging current content: %w",
				dir.Index,
				err,
			)
		}
	}

	previous := *dir
	waypoint := Inode{
		Index: dir.Index,
		State: InodeUnallocated,
		IsDir: true,
	}
	if err := fs.Inodes.Put(&waypoint); err != nil {
		return fmt.Errorf(
			"growing dir `%d`: releasing current extent: %w",
			dir.Index,
			err,
		)
	}

	inodes, err := store.ReadAll(fs.Inodes)
	if err != nil {
		return fmt.Errorf("growing dir `%d`: %w", dir.Index, err)
	}

	address, err := alloc.FindFreeExtent(inodes, &fs.Geometry, newSize)
	if err != nil {
		if restoreErr := fs.Inodes.Put(&previous); restoreErr != nil {
			return fmt.Errorf(
				"growing dir `%d`: %v; restoring previous inode: %w",
				dir.Index,
				err,
				restoreErr,
			)
		}
		return fmt.Errorf("growing dir `%d`: %w", dir.Index, err)
	}

	grown := Inode{
		Index:   dir.Index,
		State:   InodeAllocated,
		Address: address,
		Size:    newSize,
		IsDir:   true,
	}
	if err := fs.Inodes.Put(&grown); err != nil {
		return fmt.Errorf(
			"growing dir `%d`: storing new extent: %w",
			dir.Index,
			err,
		)
	}
	if err := fs.Volume.WriteAt(address, staged); err != nil {
		return fmt.Errorf(
			"growing dir `%d`: writing `%d` bytes at `%d`: %w",
			dir.Index,
			newSize,
			address,
			err,
		)
	}

	fs.Logger.WithFields(logrus.Fields{
		"inode":      dir.Index,
		"oldAddress": previous.Address,
		"oldSize":    oldSize,
		"address":    address,
		"size":       newSize,
	}).Debug("grew directory")

	*dir = grown
	return nil
}
