package directory

import (
	"fmt"
	"io"

	"github.com/weberc2/myfs/pkg/encode"
	. "github.com/weberc2/myfs/pkg/types"
)

type Handle struct {
	index  InodeIndex
	offset Byte
}

func Open(fs *FileSystem, index InodeIndex, h *Handle) error {
	var inode Inode
	if err := fs.Inodes.Get(index, &inode); err != nil {
		return fmt.Errorf("opening inode `%d` as directory: %w", index, err)
	}

	if !inode.IsDir {
		return fmt.Errorf(
			"opening inode `%d` as directory: %w",
			index,
			NotADirErr,
		)
	}

	*h = Handle{index: index}
	return nil
}

// ReadNext fills `info` with the next live entry and returns io.EOF once the
// directory is exhausted.
func ReadNext(fs *FileSystem, handle *Handle, info *FileInfo) error {
	var dir Inode
	if err := fs.Inodes.Get(handle.index, &dir); err != nil {
		return fmt.Errorf(
			"reading entry from `%d` at offset `%d`: %w",
			handle.index,
			handle.offset,
			err,
		)
	}

	// an unallocated directory has no entries, whatever its recorded size
	if dir.State != InodeAllocated {
		return io.EOF
	}

	var entry DirEntry
	for handle.offset+DirEntrySize <= dir.Size {
		if err := ReadEntry(fs, &dir, handle.offset, &entry); err != nil {
			return fmt.Errorf(
				"reading entry from `%d` at offset `%d`: %w",
				handle.index,
				handle.offset,
				err,
			)
		}
		handle.offset += DirEntrySize

		if !entry.Live() {
			continue
		}

		var child Inode
		if err := fs.Inodes.Get(entry.Index, &child); err != nil {
			return fmt.Errorf(
				"reading entry `%s` from `%d`: fetching inode `%d`: %w",
				entry.Name,
				handle.index,
				entry.Index,
				err,
			)
		}
		*info = FileInfo{
			Index: entry.Index,
			Name:  entry.Name.String(),
			IsDir: child.IsDir,
			Size:  child.Size,
		}
		return nil
	}

	return io.EOF
}

func ReadEntry(fs *FileSystem, dir *Inode, offset Byte, out *DirEntry) error {
	buf := new([DirEntrySize]byte)
	if err := fs.Volume.ReadAt(dir.Address+offset, buf[:]); err != nil {
		return fmt.Errorf(
			"reading direntry for inode `%d` at offset `%d`: %w",
			dir.Index,
			offset,
			err,
		)
	}
	encode.DecodeDirEntry(out, buf)
	return nil
}

// ReadEntries returns every slot of the directory, tombstones included.
func ReadEntries(fs *FileSystem, dir *Inode) ([]DirEntry, error) {
	if dir.State != InodeAllocated {
		return nil, nil
	}

	buf := make([]byte, dir.Size)
	if err := fs.Volume.ReadAt(dir.Address, buf); err != nil {
		return nil, fmt.Errorf(
			"reading entries of directory `%d`: %w",
			dir.Index,
			err,
		)
	}
	return encode.DecodeDirEntries(buf), nil
}

func WriteEntry(fs *FileSystem, dir *Inode, slot int, entry *DirEntry) error {
	offset := Byte(slot) * DirEntrySize
	if dir.State != InodeAllocated || offset+DirEntrySize > dir.Size {
		return fmt.Errorf(
			"writing direntry for inode `%d` into slot `%d` of `%d` bytes: %w",
			dir.Index,
			slot,
			dir.Size,
			OutOfBoundsErr,
		)
	}

	buf := new([DirEntrySize]byte)
	encode.EncodeDirEntry(entry, buf)
	if err := fs.Volume.WriteAt(dir.Address+offset, buf[:]); err != nil {
		return fmt.Errorf(
			"writing direntry for inode `%d` into slot `%d`: %w",
			dir.Index,
			slot,
			err,
		)
	}
	return nil
}
