package types

// Byte is an offset or a length on a volume. On-disk addresses and sizes are
// 32 bits wide.
type Byte uint32

type ConstError string

func (err ConstError) Error() string { return string(err) }
