package io

import (
	"fmt"

	. "github.com/weberc2/myfs/pkg/types"
)

// Buffer is an in-memory Volume whose capacity is the length of its backing
// slice.
type Buffer struct {
	data []byte
}

func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

func (b *Buffer) ReadAt(offset Byte, p []byte) error {
	if err := checkBounds(b.Capacity(), offset, len(p)); err != nil {
		return fmt.Errorf("reading from buffer: %w", err)
	}
	copy(p, b.data[offset:])
	return nil
}

func (b *Buffer) WriteAt(offset Byte, p []byte) error {
	if err := checkBounds(b.Capacity(), offset, len(p)); err != nil {
		return fmt.Errorf("writing to buffer: %w", err)
	}
	copy(b.data[offset:], p)
	return nil
}

func (b *Buffer) Capacity() Byte { return Byte(len(b.data)) }

func (b *Buffer) Bytes() []byte { return b.data }
