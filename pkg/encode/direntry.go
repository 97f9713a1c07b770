package encode

import (
	. "github.com/weberc2/myfs/pkg/types"
)

func EncodeDirEntry(entry *DirEntry, b *[DirEntrySize]byte) {
	p := b[:]
	putU8(p, dirEntryIndexStart, uint8(entry.Index))
	copy(p[dirEntryNameStart:dirEntryNameEnd], entry.Name[:])
}

func DecodeDirEntry(entry *DirEntry, b *[DirEntrySize]byte) {
	p := b[:]
	entry.Index = InodeIndex(getU8(p, dirEntryIndexStart))
	copy(entry.Name[:], p[dirEntryNameStart:dirEntryNameEnd])
}

// DecodeDirEntries decodes every whole entry in `b`, tombstones included, in
// slot order.
func DecodeDirEntries(b []byte) []DirEntry {
	entries := make([]DirEntry, len(b)/int(DirEntrySize))
	for i := range entries {
		start := Byte(i) * DirEntrySize
		DecodeDirEntry(
			&entries[i],
			(*[DirEntrySize]byte)(b[start:start+DirEntrySize]),
		)
	}
	return entries
}

const (
	dirEntryIndexStart = 0
	dirEntryIndexSize  = 1
	dirEntryIndexEnd   = dirEntryIndexStart + dirEntryIndexSize

	dirEntryNameStart = dirEntryIndexEnd
	dirEntryNameSize  = NameSize
	dirEntryNameEnd   = dirEntryNameStart + dirEntryNameSize
)
