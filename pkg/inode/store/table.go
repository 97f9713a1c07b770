package store

import (
	"fmt"

	. "github.com/weberc2/myfs/pkg/types"
)

// ReadAll fetches every slot of the table in index order.
func ReadAll(table InodeTable) ([]Inode, error) {
	inodes := make([]Inode, table.Len())
	for i := range inodes {
		if err := table.Get(InodeIndex(i), &inodes[i]); err != nil {
			return nil, fmt.Errorf("reading inode table: %w", err)
		}
	}
	return inodes, nil
}

// FirstUnused returns the lowest-indexed unused slot.
func FirstUnused(table InodeTable) (InodeIndex, error) {
	var inode Inode
	for i := 0; i < table.Len(); i++ {
		if err := table.Get(InodeIndex(i), &inode); err != nil {
			return 0, fmt.Errorf("searching for a free inode: %w", err)
		}
		if !inode.InUse() {
			return InodeIndex(i), nil
		}
	}
	return 0, fmt.Errorf(
		"searching `%d` inode slots: %w",
		table.Len(),
		NoFreeInodesErr,
	)
}
