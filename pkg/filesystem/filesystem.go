// Package filesystem exposes path-based operations over a formatted volume.
// All operations on one FileSystem are serialised.
package filesystem

import (
	"fmt"
	stdmath "math"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/weberc2/myfs/pkg/alloc"
	"github.com/weberc2/myfs/pkg/directory"
	"github.com/weberc2/myfs/pkg/encode"
	"github.com/weberc2/myfs/pkg/inode/store"
	"github.com/weberc2/myfs/pkg/io"
	"github.com/weberc2/myfs/pkg/layout"
	"github.com/weberc2/myfs/pkg/math"
	. "github.com/weberc2/myfs/pkg/types"
)

type FileInfo = directory.FileInfo

type FileSystemParams struct {
	Volume io.Volume

	// CacheCapacity bounds the inode cache. Zero or less, or anything above
	// the table size, caches the whole table.
	CacheCapacity int

	Logger logrus.FieldLogger
}

type FileSystem struct {
	mutex sync.Mutex
	fs    directory.FileSystem
	cache *store.CachingInodeStore
}

type Usage struct {
	Capacity   Byte          `json:"capacity"`
	DataStart  Byte          `json:"dataStart"`
	UsedBytes  Byte          `json:"usedBytes"`
	FreeBytes  Byte          `json:"freeBytes"`
	FreeRanges []alloc.Range `json:"freeRanges"`
	InodeCount int           `json:"inodeCount"`
	FreeInodes int           `json:"freeInodes"`
}

// NewFileSystem wires a filesystem over the volume without touching it.
// Use Initialize to validate or format the volume.
func NewFileSystem(params FileSystemParams) (*FileSystem, error) {
	geometry, err := layout.NewGeometry(params.Volume.Capacity())
	if err != nil {
		return nil, fmt.Errorf("creating filesystem: %w", err)
	}

	logger := params.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	cacheCapacity := geometry.InodeCount
	if params.CacheCapacity > 0 {
		cacheCapacity = math.Min(params.CacheCapacity, geometry.InodeCount)
	}

	cache := store.NewCachingInodeStore(
		store.NewVolumeInodeStore(params.Volume, geometry),
		cacheCapacity,
	)
	return &FileSystem{
		fs: directory.FileSystem{
			Volume:   params.Volume,
			Geometry: geometry,
			Inodes:   cache,
			Logger:   logger,
		},
		cache: cache,
	}, nil
}

// Initialize opens the volume, formatting it unless it already carries a
// valid header. Existing content is never repaired piecemeal.
func Initialize(params FileSystemParams) (*FileSystem, error) {
	fs, err := NewFileSystem(params)
	if err != nil {
		return nil, fmt.Errorf("initializing filesystem: %w", err)
	}

	header := new([layout.HeaderSize]byte)
	if err := fs.fs.Volume.ReadAt(layout.HeaderOffset, header[:]); err != nil {
		return nil, fmt.Errorf("initializing filesystem: reading header: %w", err)
	}

	if encode.ValidHeader(header) {
		fs.fs.Logger.WithField("inodes", fs.fs.Geometry.InodeCount).
			Debug("found valid volume header")
		return fs, nil
	}

	fs.fs.Logger.WithField("header", fmt.Sprintf("%q", header[:])).
		Warn("volume header not recognised; formatting")
	if err := fs.format(); err != nil {
		return nil, fmt.Errorf("initializing filesystem: %w", err)
	}
	return fs, nil
}

func (fs *FileSystem) Geometry() layout.Geometry { return fs.fs.Geometry }

// Format destroys the volume's content and leaves an empty root directory.
func (fs *FileSystem) Format() error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	return fs.format()
}

func (fs *FileSystem) format() error {
	g := &fs.fs.Geometry

	metadata := make([]byte, g.DataStart)
	encode.EncodeHeader((*[layout.HeaderSize]byte)(metadata))
	if err := fs.fs.Volume.WriteAt(0, metadata); err != nil {
		return fmt.Errorf("formatting: writing header and inode table: %w", err)
	}
	fs.cache.Purge()

	root := Inode{
		Index:   InodeIndexRoot,
		State:   InodeAllocated,
		Address: g.DataStart,
		Size:    DirGrowthSize,
		IsDir:   true,
	}
	if err := fs.fs.Inodes.Put(&root); err != nil {
		return fmt.Errorf("formatting: storing root inode: %w", err)
	}
	if err := fs.fs.Volume.WriteAt(
		root.Address,
		make([]byte, root.Size),
	); err != nil {
		return fmt.Errorf("formatting: zeroing root directory: %w", err)
	}

	fs.fs.Logger.WithFields(logrus.Fields{
		"capacity":   g.Capacity,
		"inodes":     g.InodeCount,
		"tableStart": g.TableStart,
		"dataStart":  g.DataStart,
	}).Info("formatted volume")
	return nil
}

// CreateEntry adds an empty file or directory at `path`. The parent's entry
// is written before the inode slot is claimed.
func (fs *FileSystem) CreateEntry(path string, isDir bool) error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	names, err := SplitPath(fs.fs.Logger, path)
	if err != nil {
		return fmt.Errorf("creating `%s`: %w", path, err)
	}
	if len(names) < 1 {
		return fmt.Errorf(
			"creating `%s`: path names the root: %w",
			path,
			InvalidPathErr,
		)
	}

	parent, err := walk(&fs.fs, names[:len(names)-1])
	if err != nil {
		return fmt.Errorf("creating `%s`: resolving parent: %w", path, err)
	}

	index, err := store.FirstUnused(fs.fs.Inodes)
	if err != nil {
		return fmt.Errorf("creating `%s`: %w", path, err)
	}

	if err := directory.Insert(
		&fs.fs,
		parent,
		index,
		names[len(names)-1],
	); err != nil {
		return fmt.Errorf("creating `%s`: %w", path, err)
	}

	if err := fs.fs.Inodes.Put(&Inode{
		Index: index,
		State: InodeUnallocated,
		IsDir: isDir,
	}); err != nil {
		return fmt.Errorf("creating `%s`: claiming inode `%d`: %w", path, index, err)
	}
	return nil
}

func (fs *FileSystem) CreateFile(path string) error {
	return fs.CreateEntry(path, false)
}

func (fs *FileSystem) CreateDir(path string) error {
	return fs.CreateEntry(path, true)
}

func (fs *FileSystem) Resolve(path string) (InodeIndex, error) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	return resolve(&fs.fs, path)
}

func (fs *FileSystem) Stat(path string) (FileInfo, error) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	names, err := SplitPath(fs.fs.Logger, path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("stat `%s`: %w", path, err)
	}
	index, err := walk(&fs.fs, names)
	if err != nil {
		return FileInfo{}, fmt.Errorf("stat `%s`: %w", path, err)
	}

	var inode Inode
	if err := fs.fs.Inodes.Get(index, &inode); err != nil {
		return FileInfo{}, fmt.Errorf("stat `%s`: %w", path, err)
	}

	name := Separator
	if len(names) > 0 {
		name = names[len(names)-1].String()
	}
	return FileInfo{
		Index: index,
		Name:  name,
		IsDir: inode.IsDir,
		Size:  inode.Size,
	}, nil
}

func (fs *FileSystem) ReadContent(path string) ([]byte, error) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	inode, err := fs.file(path)
	if err != nil {
		return nil, fmt.Errorf("reading `%s`: %w", path, err)
	}
	if inode.State != InodeAllocated {
		return []byte{}, nil
	}

	data := make([]byte, inode.Size)
	if err := fs.fs.Volume.ReadAt(inode.Address, data); err != nil {
		return nil, fmt.Errorf("reading `%s`: %w", path, err)
	}
	return data, nil
}

// WriteContent replaces the file's content. The old extent stays counted as
// occupied while the new one is chosen and is orphaned afterwards.
func (fs *FileSystem) WriteContent(path string, data []byte) error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	if uint64(len(data)) > stdmath.MaxUint32 {
		return fmt.Errorf(
			"writing `%d` bytes to `%s`: %w",
			len(data),
			path,
			ContentTooLargeErr,
		)
	}

	inode, err := fs.file(path)
	if err != nil {
		return fmt.Errorf("writing `%s`: %w", path, err)
	}

	if len(data) < 1 {
		inode.State = InodeUnallocated
		inode.Address = 0
		inode.Size = 0
		if err := fs.fs.Inodes.Put(&inode); err != nil {
			return fmt.Errorf("writing `%s`: %w", path, err)
		}
		return nil
	}

	inodes, err := store.ReadAll(fs.fs.Inodes)
	if err != nil {
		return fmt.Errorf("writing `%s`: %w", path, err)
	}
	address, err := alloc.FindFreeExtent(
		inodes,
		&fs.fs.Geometry,
		Byte(len(data)),
	)
	if err != nil {
		return fmt.Errorf("writing `%s`: %w", path, err)
	}

	inode.State = InodeAllocated
	inode.Address = address
	inode.Size = Byte(len(data))
	if err := fs.fs.Inodes.Put(&inode); err != nil {
		return fmt.Errorf("writing `%s`: %w", path, err)
	}
	if err := fs.fs.Volume.WriteAt(address, data); err != nil {
		return fmt.Errorf(
			"writing `%s`: `%d` bytes at `%d`: %w",
			path,
			len(data),
			address,
			err,
		)
	}
	return nil
}

func (fs *FileSystem) ListEntries(path string) ([]FileInfo, error) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	index, err := resolve(&fs.fs, path)
	if err != nil {
		return nil, fmt.Errorf("listing `%s`: %w", path, err)
	}
	infos, err := directory.List(&fs.fs, index)
	if err != nil {
		return nil, fmt.Errorf("listing `%s`: %w", path, err)
	}
	return infos, nil
}

func (fs *FileSystem) Usage() (Usage, error) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	inodes, err := store.ReadAll(fs.fs.Inodes)
	if err != nil {
		return Usage{}, fmt.Errorf("computing usage: %w", err)
	}

	g := &fs.fs.Geometry
	usage := Usage{
		Capacity:   g.Capacity,
		DataStart:  g.DataStart,
		FreeRanges: alloc.FreeRanges(inodes, g),
		InodeCount: g.InodeCount,
	}
	for i := range inodes {
		switch inodes[i].State {
		case InodeUnused:
			usage.FreeInodes++
		case InodeAllocated:
			usage.UsedBytes += inodes[i].Size
		}
	}
	for _, r := range usage.FreeRanges {
		usage.FreeBytes += r.Len()
	}
	return usage, nil
}

// file resolves `path` to a non-directory inode.
func (fs *FileSystem) file(path string) (Inode, error) {
	index, err := resolve(&fs.fs, path)
	if err != nil {
		return Inode{}, err
	}

	var inode Inode
	if err := fs.fs.Inodes.Get(index, &inode); err != nil {
		return Inode{}, err
	}
	if inode.IsDir {
		return Inode{}, fmt.Errorf("inode `%d`: %w", index, IsADirErr)
	}
	return inode, nil
}
