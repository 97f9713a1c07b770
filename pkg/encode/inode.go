package encode

import (
	"fmt"

	. "github.com/weberc2/myfs/pkg/types"
)

const (
	// AddressUnused is the on-disk address of a free inode slot.
	AddressUnused Byte = 0

	// AddressUnallocated is the on-disk address of an in-use inode that owns
	// no content region.
	AddressUnallocated Byte = 0xFFFFFFFF
)

func EncodeInode(inode *Inode, b *[InodeRecordSize]byte) {
	p := b[:]

	address := inode.Address
	switch inode.State {
	case InodeUnused:
		address = AddressUnused
	case InodeUnallocated:
		address = AddressUnallocated
	}

	putBytePointer(p, inodeAddressStart, address)
	putBytePointer(p, inodeSizeStart, inode.Size)
	putBool(p, inodeIsDirStart, inode.IsDir)
	for i := Byte(inodePaddingStart); i < inodePaddingEnd; i++ {
		p[i] = 0
	}
}

// DecodeInode maps the address sentinels onto the inode's state. It leaves
// `inode.Index` alone; callers know which slot they read.
func DecodeInode(inode *Inode, b *[InodeRecordSize]byte) error {
	p := b[:]

	isDir := getU8(p, inodeIsDirStart)
	if isDir > 1 {
		return fmt.Errorf(
			"decoding inode: directory flag `%d`: %w",
			isDir,
			CorruptInodeErr,
		)
	}

	address := getBytePointer(p, inodeAddressStart)
	switch address {
	case AddressUnused:
		inode.State = InodeUnused
		inode.Address = 0
	case AddressUnallocated:
		inode.State = InodeUnallocated
		inode.Address = 0
	default:
		inode.State = InodeAllocated
		inode.Address = address
	}
	inode.Size = getBytePointer(p, inodeSizeStart)
	inode.IsDir = isDir == 1
	return nil
}

const (
	inodeAddressStart = 0
	inodeAddressSize  = 4
	inodeAddressEnd   = inodeAddressStart + inodeAddressSize

	inodeSizeStart = inodeAddressEnd
	inodeSizeSize  = 4
	inodeSizeEnd   = inodeSizeStart + inodeSizeSize

	inodeIsDirStart = inodeSizeEnd
	inodeIsDirSize  = 1
	inodeIsDirEnd   = inodeIsDirStart + inodeIsDirSize

	inodePaddingStart = inodeIsDirEnd
	inodePaddingEnd   = InodeRecordSize
)
