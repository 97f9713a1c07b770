package types

type InodeStore interface {
	Put(inode *Inode) error
	Get(index InodeIndex, output *Inode) error
}

// InodeTable is an InodeStore with a fixed number of slots.
type InodeTable interface {
	InodeStore
	Len() int
}
