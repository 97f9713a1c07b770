package types

const (
	NameSize = 10

	DirEntrySize Byte = 1 + NameSize

	// DirGrowthEntries is the number of slots a directory starts with and
	// gains every time it runs out of free slots.
	DirGrowthEntries      = 4
	DirGrowthSize    Byte = DirGrowthEntries * DirEntrySize

	// InodeIndexTombstone marks an empty directory slot. It can never name a
	// child because index 0 is the root.
	InodeIndexTombstone InodeIndex = 0
)

// Name is the fixed-capacity, zero-padded name field of a directory entry.
type Name [NameSize]byte

// NewName copies at most NameSize bytes of s into a Name. The boolean
// reports whether s had to be truncated.
func NewName(s string) (Name, bool) {
	var name Name
	copy(name[:], s)
	return name, len(s) > NameSize
}

func (name Name) String() string {
	n := len(name)
	for n > 0 && name[n-1] == 0 {
		n--
	}
	return string(name[:n])
}

type DirEntry struct {
	Index InodeIndex
	Name  Name
}

func (entry *DirEntry) Live() bool {
	return entry.Index != InodeIndexTombstone
}
