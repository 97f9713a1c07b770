package io

import (
	"fmt"

	. "github.com/weberc2/myfs/pkg/types"
)

type ReadAt interface {
	ReadAt(offset Byte, b []byte) error
}

type WriteAt interface {
	WriteAt(offset Byte, p []byte) error
}

// Volume is a fixed-capacity, byte-addressable storage device. Reads and
// writes are all-or-nothing for the requested range.
type Volume interface {
	ReadAt
	WriteAt
	Capacity() Byte
}

func checkBounds(capacity, offset Byte, length int) error {
	if uint64(offset)+uint64(length) > uint64(capacity) {
		return fmt.Errorf(
			"accessing `%d` bytes at offset `%d` of a `%d` byte volume: %w",
			length,
			offset,
			capacity,
			OutOfBoundsErr,
		)
	}
	return nil
}
