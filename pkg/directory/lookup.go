package directory

import (
	"errors"
	"fmt"
	"io"

	. "github.com/weberc2/myfs/pkg/types"
)

func Lookup(fs *FileSystem, dirIndex InodeIndex, name Name) (InodeIndex, error) {
	var dir Inode
	if err := fs.Inodes.Get(dirIndex, &dir); err != nil {
		return 0, fmt.Errorf(
			"looking up `%s` in dir `%d`: %w",
			name,
			dirIndex,
			err,
		)
	}
	if !dir.IsDir {
		return 0, fmt.Errorf(
			"looking up `%s` in inode `%d`: %w",
			name,
			dirIndex,
			NotADirErr,
		)
	}

	entries, err := ReadEntries(fs, &dir)
	if err != nil {
		return 0, fmt.Errorf(
			"looking up `%s` in dir `%d`: %w",
			name,
			dirIndex,
			err,
		)
	}

	for i := range entries {
		if entries[i].Live() && entries[i].Name == name {
			return entries[i].Index, nil
		}
	}

	return 0, fmt.Errorf(
		"looking up `%s` in dir `%d`: %w",
		name,
		dirIndex,
		NotFoundErr,
	)
}

// List returns the live entries of a directory in slot order.
func List(fs *FileSystem, dirIndex InodeIndex) ([]FileInfo, error) {
	var h Handle
	if err := Open(fs, dirIndex, &h); err != nil {
		return nil, fmt.Errorf("listing dir `%d`: %w", dirIndex, err)
	}

	infos := []FileInfo{}
	for {
		var info FileInfo
		if err := ReadNext(fs, &h, &info); err != nil {
			if errors.Is(err, io.EOF) {
				return infos, nil
			}
			return nil, fmt.Errorf("listing dir `%d`: %w", dirIndex, err)
		}
		infos = append(infos, info)
	}
}
