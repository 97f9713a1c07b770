package types

import (
	"fmt"
)

// InodeIndex addresses a slot in the inode table. Index 0 is always the root
// directory.
type InodeIndex uint8

const (
	InodeRecordSize Byte       = 12
	InodeIndexRoot  InodeIndex = 0

	// MaxInodes is the number of distinct values an InodeIndex can take.
	MaxInodes = 1 << 8
)

// InodeState replaces the on-disk address sentinels with an explicit tag.
type InodeState uint8

const (
	// InodeUnused means the slot can be claimed by a create.
	InodeUnused InodeState = iota

	// InodeUnallocated means the slot is in use but owns no content region,
	// e.g. an empty file, a fresh directory or a directory mid-growth.
	InodeUnallocated

	// InodeAllocated means the content occupies [Address, Address+Size).
	InodeAllocated
)

func (state InodeState) String() string {
	switch state {
	case InodeUnused:
		return "Unused"
	case InodeUnallocated:
		return "Unallocated"
	case InodeAllocated:
		return "Allocated"
	default:
		panic(fmt.Sprintf("invalid inode state: `%d`", state))
	}
}

func (state InodeState) MarshalJSON() ([]byte, error) {
	s := state.String()
	out := make([]byte, len(s)+2)
	out[0] = '"'
	out[len(out)-1] = '"'
	copy(out[1:], s)
	return out, nil
}

type Inode struct {
	Index   InodeIndex
	State   InodeState
	Address Byte
	Size    Byte
	IsDir   bool
}

func (inode *Inode) InUse() bool { return inode.State != InodeUnused }

// End is the first byte past the inode's content. Only meaningful for
// allocated inodes.
func (inode *Inode) End() Byte { return inode.Address + inode.Size }
