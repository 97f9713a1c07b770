package io

import (
	"fmt"
	"os"

	. "github.com/weberc2/myfs/pkg/types"
)

// FileVolume is a Volume backed by a regular file (or a block device node).
type FileVolume struct {
	file     *os.File
	capacity Byte
}

// OpenFileVolume opens the file at `path`, creating it if necessary, and
// extends it to `capacity` bytes if it is shorter. Existing content is kept.
func OpenFileVolume(path string, capacity Byte) (*FileVolume, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening file volume `%s`: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("opening file volume `%s`: %w", path, err)
	}

	if info.Size() < int64(capacity) {
		if err := file.Truncate(int64(capacity)); err != nil {
			file.Close()
			return nil, fmt.Errorf(
				"opening file volume `%s`: extending to `%d` bytes: %w",
				path,
				capacity,
				err,
			)
		}
	}

	return &FileVolume{file: file, capacity: capacity}, nil
}

func (volume *FileVolume) ReadAt(offset Byte, buffer []byte) error {
	if err := checkBounds(volume.capacity, offset, len(buffer)); err != nil {
		return fmt.Errorf("reading file `%s`: %w", volume.file.Name(), err)
	}
	if _, err := volume.file.ReadAt(buffer, int64(offset)); err != nil {
		return fmt.Errorf(
			"reading file `%s` at offset `%d`: %w",
			volume.file.Name(),
			offset,
			err,
		)
	}

	return nil
}

func (volume *FileVolume) WriteAt(offset Byte, buffer []byte) error {
	if err := checkBounds(volume.capacity, offset, len(buffer)); err != nil {
		return fmt.Errorf("writing file `%s`: %w", volume.file.Name(), err)
	}
	if _, err := volume.file.WriteAt(buffer, int64(offset)); err != nil {
		return fmt.Errorf(
			"writing file `%s` at offset `%d`: %w",
			volume.file.Name(),
			offset,
			err,
		)
	}

	return nil
}

func (volume *FileVolume) Capacity() Byte { return volume.capacity }

func (volume *FileVolume) Close() error {
	if err := volume.file.Sync(); err != nil {
		volume.file.Close()
		return fmt.Errorf("closing file `%s`: %w", volume.file.Name(), err)
	}
	return volume.file.Close()
}
