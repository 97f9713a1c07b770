package directory

import (
	"fmt"

	. "github.com/weberc2/myfs/pkg/types"
)

// Insert adds `name -> child` to the directory at `dirIndex`, writing into
// the first tombstone. A directory without free slots grows by
// DirGrowthEntries slots until one appears or the allocator gives up.
func Insert(
	fs *FileSystem,
	dirIndex InodeIndex,
	child InodeIndex,
	name Name,
) error {
	var dir Inode
	if err := fs.Inodes.Get(dirIndex, &dir); err != nil {
		return fmt.Errorf(
			"inserting `%s` into dir `%d`: %w",
			name,
			dirIndex,
			err,
		)
	}
	if !dir.IsDir {
		return fmt.Errorf(
			"inserting `%s` into inode `%d`: %w",
			name,
			dirIndex,
			NotADirErr,
		)
	}

	for {
		entries, err := ReadEntries(fs, &dir)
		if err != nil {
			return fmt.Errorf(
				"inserting `%s` into dir `%d`: %w",
				name,
				dirIndex,
				err,
			)
		}

		free := -1
		for i := range entries {
			if !entries[i].Live() {
				if free < 0 {
					free = i
				}
				continue
			}
			if entries[i].Name == name {
				return fmt.Errorf(
					"inserting `%s` into dir `%d`: %w",
					name,
					dirIndex,
					AlreadyExistsErr,
				)
			}
		}

		if free >= 0 {
			if err := WriteEntry(
				fs,
				&dir,
				free,
				&DirEntry{Index: child, Name: name},
			); err != nil {
				return fmt.Errorf(
					"inserting `%s` into dir `%d`: %w",
					name,
					dirIndex,
					err,
				)
			}
			return nil
		}

		newSize := DirGrowthSize
		if dir.State == InodeAllocated {
			newSize += dir.Size
		}
		if err := Grow(fs, &dir, newSize); err != nil {
			return fmt.Errorf(
				"inserting `%s` into dir `%d`: %w",
				name,
				dirIndex,
				err,
			)
		}
	}
}
