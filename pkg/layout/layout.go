// Package layout derives the fixed on-disk geometry of a volume from its
// capacity:
//
//	[header][1 byte][inode table][1 byte][data region ... capacity)
package layout

import (
	"fmt"

	. "github.com/weberc2/myfs/pkg/types"
)

const (
	Magic          = "DaLI"
	Version  uint8 = 3
	MagicLen       = len(Magic)

	HeaderOffset Byte = 0
	HeaderSize   Byte = Byte(MagicLen) + 1

	// BytesPerInode is the capacity quota backing each inode slot, the same
	// density mke2fs uses by default.
	BytesPerInode Byte = 16 * 1024

	TableStart = HeaderOffset + HeaderSize + 1
)

type Geometry struct {
	Capacity   Byte
	InodeCount int
	TableStart Byte
	TableSize  Byte
	DataStart  Byte
}

// NewGeometry fails unless the capacity yields between 1 and MaxInodes inode
// slots and leaves room for the root directory.
func NewGeometry(capacity Byte) (Geometry, error) {
	inodeCount := int(capacity / BytesPerInode)
	if inodeCount < 1 || inodeCount > MaxInodes {
		return Geometry{}, fmt.Errorf(
			"computing geometry for capacity `%d`: `%d` inode slots outside "+
				"`[1, %d]`: %w",
			capacity,
			inodeCount,
			MaxInodes,
			InvalidCapacityErr,
		)
	}

	tableSize := Byte(inodeCount) * InodeRecordSize
	return Geometry{
		Capacity:   capacity,
		InodeCount: inodeCount,
		TableStart: TableStart,
		TableSize:  tableSize,
		DataStart:  TableStart + tableSize + 1,
	}, nil
}

// InodeOffset is the offset of an inode record relative to TableStart.
func (g Geometry) InodeOffset(index InodeIndex) Byte {
	return Byte(index) * InodeRecordSize
}

func (g Geometry) DataSize() Byte { return g.Capacity - g.DataStart }

// Contains reports whether [address, address+size) lies in the data region.
func (g Geometry) Contains(address, size Byte) bool {
	return address >= g.DataStart &&
		uint64(address)+uint64(size) <= uint64(g.Capacity)
}
