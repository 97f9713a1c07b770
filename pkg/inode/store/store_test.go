package store

import (
	"errors"
	"testing"

	"github.com/weberc2/myfs/pkg/encode"
	"github.com/weberc2/myfs/pkg/io"
	"github.com/weberc2/myfs/pkg/layout"
	. "github.com/weberc2/myfs/pkg/types"
)

func newTestStore(t *testing.T) (*io.Buffer, VolumeInodeStore) {
	geometry, err := layout.NewGeometry(1024 * 1024)
	if err != nil {
		t.Fatalf("NewGeometry(): unexpected err: %v", err)
	}
	volume := io.NewBuffer(make([]byte, geometry.Capacity))
	return volume, NewVolumeInodeStore(volume, geometry)
}

func TestVolumeInodeStore_PutGet(t *testing.T) {
	volume, store := newTestStore(t)

	wanted := Inode{
		Index:   3,
		State:   InodeAllocated,
		Address: 775,
		Size:    44,
		IsDir:   true,
	}
	if err := store.Put(&wanted); err != nil {
		t.Fatalf("Put(): unexpected err: %v", err)
	}

	// the record lands at table_start + index*record_size
	raw := make([]byte, InodeRecordSize)
	if err := volume.ReadAt(layout.TableStart+3*InodeRecordSize, raw); err != nil {
		t.Fatalf("reading raw record: %v", err)
	}
	var decoded Inode
	if err := encode.DecodeInode(
		&decoded,
		(*[InodeRecordSize]byte)(raw),
	); err != nil {
		t.Fatalf("decoding raw record: %v", err)
	}
	decoded.Index = 3
	if decoded != wanted {
		t.Fatalf(
			"raw record: wanted `%s`; found `%s`",
			mustMarshal(t, &wanted),
			mustMarshal(t, &decoded),
		)
	}

	var found Inode
	if err := store.Get(3, &found); err != nil {
		t.Fatalf("Get(): unexpected err: %v", err)
	}
	if found != wanted {
		t.Fatalf(
			"wanted `%s`; found `%s`",
			mustMarshal(t, &wanted),
			mustMarshal(t, &found),
		)
	}
}

func TestVolumeInodeStore_Errors(t *testing.T) {
	_, store := newTestStore(t)

	var inode Inode
	if err := store.Get(64, &inode); !errors.Is(err, InodeIndexOutOfRangeErr) {
		t.Fatalf("Get(64): wanted `%v`; found `%v`", InodeIndexOutOfRangeErr, err)
	}
	if err := store.Put(&Inode{Index: 200}); !errors.Is(
		err,
		InodeIndexOutOfRangeErr,
	) {
		t.Fatalf("Put(200): wanted `%v`; found `%v`", InodeIndexOutOfRangeErr, err)
	}

	for _, bad := range []Inode{
		{Index: 1, State: InodeAllocated, Address: 100, Size: 4},
		{Index: 2, State: InodeAllocated, Address: 1024*1024 - 2, Size: 4},
	} {
		if err := store.Put(&bad); err != nil {
			t.Fatalf("Put(): unexpected err: %v", err)
		}
		if err := store.Get(bad.Index, &inode); !errors.Is(err, CorruptInodeErr) {
			t.Fatalf(
				"Get(%d): wanted `%v`; found `%v`",
				bad.Index,
				CorruptInodeErr,
				err,
			)
		}
	}
}

type countingStore struct {
	VolumeInodeStore
	gets int
	fail error
}

func (store *countingStore) Get(index InodeIndex, output *Inode) error {
	store.gets++
	return store.VolumeInodeStore.Get(index, output)
}

func (store *countingStore) Put(inode *Inode) error {
	if store.fail != nil {
		return store.fail
	}
	return store.VolumeInodeStore.Put(inode)
}

func TestCachingInodeStore(t *testing.T) {
	_, backend := newTestStore(t)
	counting := &countingStore{VolumeInodeStore: backend}
	store := NewCachingInodeStore(counting, 4)

	if store.Len() != 64 {
		t.Fatalf("Len(): wanted `64`; found `%d`", store.Len())
	}

	written := Inode{Index: 1, State: InodeUnallocated}
	if err := store.Put(&written); err != nil {
		t.Fatalf("Put(): unexpected err: %v", err)
	}

	// write-through: the backend already holds the record
	var inode Inode
	if err := backend.Get(1, &inode); err != nil || inode != written {
		t.Fatalf("backend Get(1): found `%s` (err: %v)", mustMarshal(t, &inode), err)
	}

	if err := store.Get(1, &inode); err != nil {
		t.Fatalf("Get(1): unexpected err: %v", err)
	}
	if counting.gets != 0 {
		t.Fatalf("Get(1): wanted cache hit; backend read `%d` times", counting.gets)
	}

	// a miss is served by the backend and cached afterwards
	for i := 0; i < 2; i++ {
		if err := store.Get(2, &inode); err != nil {
			t.Fatalf("Get(2): unexpected err: %v", err)
		}
	}
	if counting.gets != 1 {
		t.Fatalf("Get(2) twice: wanted `1` backend read; found `%d`", counting.gets)
	}

	// rewriting the table behind the store is invisible until a purge
	if err := backend.Put(&Inode{Index: 1}); err != nil {
		t.Fatalf("backend Put(1): unexpected err: %v", err)
	}
	store.Purge()
	if err := store.Get(1, &inode); err != nil {
		t.Fatalf("Get(1) after purge: unexpected err: %v", err)
	}
	if inode.InUse() {
		t.Fatalf("Get(1) after purge: found stale `%s`", mustMarshal(t, &inode))
	}
}

func TestCachingInodeStore_FailedPutDropsEntry(t *testing.T) {
	_, backend := newTestStore(t)
	counting := &countingStore{VolumeInodeStore: backend}
	store := NewCachingInodeStore(counting, 4)

	if err := store.Put(&Inode{Index: 1, State: InodeUnallocated}); err != nil {
		t.Fatalf("Put(): unexpected err: %v", err)
	}

	counting.fail = OutOfBoundsErr
	err := store.Put(&Inode{Index: 1, State: InodeAllocated, Address: 775})
	if !errors.Is(err, OutOfBoundsErr) {
		t.Fatalf("Put(): wanted `%v`; found `%v`", OutOfBoundsErr, err)
	}

	var inode Inode
	if err := store.Get(1, &inode); err != nil {
		t.Fatalf("Get(1): unexpected err: %v", err)
	}
	if inode.State != InodeUnallocated {
		t.Fatalf("Get(1): wanted backend state; found `%s`", mustMarshal(t, &inode))
	}
}

func TestFirstUnusedAndReadAll(t *testing.T) {
	_, store := newTestStore(t)
	for _, i := range []InodeIndex{0, 1, 3} {
		if err := store.Put(&Inode{Index: i, State: InodeUnallocated}); err != nil {
			t.Fatalf("Put(%d): unexpected err: %v", i, err)
		}
	}

	index, err := FirstUnused(store)
	if err != nil {
		t.Fatalf("FirstUnused(): unexpected err: %v", err)
	}
	if index != 2 {
		t.Fatalf("FirstUnused(): wanted `2`; found `%d`", index)
	}

	inodes, err := ReadAll(store)
	if err != nil {
		t.Fatalf("ReadAll(): unexpected err: %v", err)
	}
	if len(inodes) != 64 {
		t.Fatalf("ReadAll(): wanted `64` inodes; found `%d`", len(inodes))
	}
	for i, inode := range inodes {
		if inode.Index != InodeIndex(i) {
			t.Fatalf("ReadAll()[%d]: found index `%d`", i, inode.Index)
		}
	}

	for i := 0; i < 64; i++ {
		if err := store.Put(&Inode{
			Index: InodeIndex(i),
			State: InodeUnallocated,
		}); err != nil {
			t.Fatalf("Put(%d): unexpected err: %v", i, err)
		}
	}
	if _, err := FirstUnused(store); !errors.Is(err, NoFreeInodesErr) {
		t.Fatalf("FirstUnused(): wanted `%v`; found `%v`", NoFreeInodesErr, err)
	}
}
