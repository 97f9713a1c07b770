package types

const (
	InvalidPathErr          ConstError = "invalid path"
	NotFoundErr             ConstError = "no such file or directory"
	NotADirErr              ConstError = "not a directory"
	IsADirErr               ConstError = "is a directory"
	AlreadyExistsErr        ConstError = "file exists"
	NoFreeInodesErr         ConstError = "no free inodes"
	NoSpaceErr              ConstError = "no space left on volume"
	InodeIndexOutOfRangeErr ConstError = "inode index out of range"
	CorruptInodeErr         ConstError = "corrupt inode"
	InvalidExtentSizeErr    ConstError = "invalid extent size"
	InvalidCapacityErr      ConstError = "invalid volume capacity"
	OutOfBoundsErr          ConstError = "access out of volume bounds"
	ContentTooLargeErr      ConstError = "content too large"
)
