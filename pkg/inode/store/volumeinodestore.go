package store

import (
	"fmt"

	"github.com/weberc2/myfs/pkg/encode"
	"github.com/weberc2/myfs/pkg/io"
	"github.com/weberc2/myfs/pkg/layout"
	. "github.com/weberc2/myfs/pkg/types"
)

// VolumeInodeStore reads and writes inode records directly on the volume.
type VolumeInodeStore struct {
	table    io.Volume
	geometry layout.Geometry
}

func NewVolumeInodeStore(
	volume io.Volume,
	geometry layout.Geometry,
) VolumeInodeStore {
	return VolumeInodeStore{
		table:    io.NewOffsetVolume(volume, geometry.TableStart),
		geometry: geometry,
	}
}

func (store VolumeInodeStore) Len() int { return store.geometry.InodeCount }

func (store VolumeInodeStore) checkIndex(index InodeIndex) error {
	if int(index) >= store.geometry.InodeCount {
		return fmt.Errorf(
			"inode `%d` of `%d`: %w",
			index,
			store.geometry.InodeCount,
			InodeIndexOutOfRangeErr,
		)
	}
	return nil
}

func (store VolumeInodeStore) Put(inode *Inode) error {
	if err := store.checkIndex(inode.Index); err != nil {
		return fmt.Errorf("writing inode: %w", err)
	}

	buf := new([InodeRecordSize]byte)
	encode.EncodeInode(inode, buf)
	offset := store.geometry.InodeOffset(inode.Index)
	if err := store.table.WriteAt(offset, buf[:]); err != nil {
		return fmt.Errorf(
			"writing inode `%d` to volume at offset `%d`: %w",
			inode.Index,
			offset,
			err,
		)
	}
	return nil
}

// Get fails with CorruptInodeErr rather than hand out an extent that
// reaches outside the data region.
func (store VolumeInodeStore) Get(index InodeIndex, output *Inode) error {
	if err := store.checkIndex(index); err != nil {
		return fmt.Errorf("reading inode: %w", err)
	}

	buf := new([InodeRecordSize]byte)
	offset := store.geometry.InodeOffset(index)
	if err := store.table.ReadAt(offset, buf[:]); err != nil {
		return fmt.Errorf(
			"reading inode `%d` from volume at offset `%d`: %w",
			index,
			offset,
			err,
		)
	}

	var inode Inode
	if err := encode.DecodeInode(&inode, buf); err != nil {
		return fmt.Errorf("reading inode `%d`: %w", index, err)
	}
	inode.Index = index

	if inode.State == InodeAllocated &&
		!store.geometry.Contains(inode.Address, inode.Size) {
		return fmt.Errorf(
			"reading inode `%d`: extent `[%d, %d)` outside data region "+
				"`[%d, %d)`: %w",
			index,
			inode.Address,
			uint64(inode.Address)+uint64(inode.Size),
			store.geometry.DataStart,
			store.geometry.Capacity,
			CorruptInodeErr,
		)
	}

	*output = inode
	return nil
}

var _ InodeTable = VolumeInodeStore{}
