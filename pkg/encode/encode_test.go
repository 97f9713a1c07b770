package encode

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/weberc2/myfs/pkg/layout"
	. "github.com/weberc2/myfs/pkg/types"
)

func TestHeader(t *testing.T) {
	var b [layout.HeaderSize]byte
	if ValidHeader(&b) {
		t.Fatal("zeroed header: wanted invalid; found valid")
	}

	EncodeHeader(&b)
	if wanted := [layout.HeaderSize]byte{'D', 'a', 'L', 'I', 3}; b != wanted {
		t.Fatalf("wanted header `%v`; found `%v`", wanted, b)
	}
	if !ValidHeader(&b) {
		t.Fatal("encoded header: wanted valid; found invalid")
	}

	b[4] = 2
	if ValidHeader(&b) {
		t.Fatal("wrong version: wanted invalid; found valid")
	}
}

func TestEncodeInode(t *testing.T) {
	type testCase struct {
		name   string
		input  Inode
		wanted [InodeRecordSize]byte
	}

	testCases := []testCase{{
		name:   "unused",
		input:  Inode{State: InodeUnused, Address: 1234, Size: 7},
		wanted: [InodeRecordSize]byte{0, 0, 0, 0, 7, 0, 0, 0, 0, 0, 0, 0},
	}, {
		name:  "unallocated directory",
		input: Inode{State: InodeUnallocated, IsDir: true},
		wanted: [InodeRecordSize]byte{
			0xFF, 0xFF, 0xFF, 0xFF, 0, 0, 0, 0, 1, 0, 0, 0,
		},
	}, {
		name:  "allocated file",
		input: Inode{State: InodeAllocated, Address: 775, Size: 5},
		wanted: [InodeRecordSize]byte{
			0x07, 0x03, 0, 0, 5, 0, 0, 0, 0, 0, 0, 0,
		},
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var found [InodeRecordSize]byte
			for i := range found {
				found[i] = 0xAA
			}
			EncodeInode(&tc.input, &found)
			if found != tc.wanted {
				t.Fatalf("wanted `%v`; found `%v`", tc.wanted, found)
			}
		})
	}
}

func TestDecodeInode(t *testing.T) {
	type testCase struct {
		name        string
		input       [InodeRecordSize]byte
		wanted      Inode
		wantedError error
	}

	testCases := []testCase{{
		name:   "unused",
		input:  [InodeRecordSize]byte{},
		wanted: Inode{Index: 3, State: InodeUnused},
	}, {
		name: "unallocated",
		input: [InodeRecordSize]byte{
			0xFF, 0xFF, 0xFF, 0xFF, 0, 0, 0, 0, 1, 0, 0, 0,
		},
		wanted: Inode{Index: 3, State: InodeUnallocated, IsDir: true},
	}, {
		name: "allocated",
		input: [InodeRecordSize]byte{
			0x07, 0x03, 0, 0, 44, 0, 0, 0, 1, 0, 0, 0,
		},
		wanted: Inode{
			Index:   3,
			State:   InodeAllocated,
			Address: 775,
			Size:    44,
			IsDir:   true,
		},
	}, {
		name: "bad directory flag",
		input: [InodeRecordSize]byte{
			0x07, 0x03, 0, 0, 44, 0, 0, 0, 7, 0, 0, 0,
		},
		wantedError: CorruptInodeErr,
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			found := Inode{Index: 3}
			err := DecodeInode(&found, &tc.input)
			if tc.wantedError != nil {
				if !errors.Is(err, tc.wantedError) {
					t.Fatalf("wanted error `%v`; found `%v`", tc.wantedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeInode(): unexpected err: %v", err)
			}
			if found != tc.wanted {
				wanted, err := json.Marshal(tc.wanted)
				if err != nil {
					t.Fatalf("marshaling wanted inode: %v", err)
				}
				data, err := json.Marshal(found)
				if err != nil {
					t.Fatalf("marshaling found inode: %v", err)
				}
				t.Fatalf("wanted `%s`; found `%s`", wanted, data)
			}
		})
	}
}

func TestDirEntry(t *testing.T) {
	name, truncated := NewName("hello")
	if truncated {
		t.Fatal("NewName(\"hello\"): unexpected truncation")
	}

	var b [DirEntrySize]byte
	EncodeDirEntry(&DirEntry{Index: 9, Name: name}, &b)
	wanted := [DirEntrySize]byte{9, 'h', 'e', 'l', 'l', 'o', 0, 0, 0, 0, 0}
	if b != wanted {
		t.Fatalf("wanted `%v`; found `%v`", wanted, b)
	}

	var found DirEntry
	DecodeDirEntry(&found, &b)
	if found.Index != 9 || found.Name.String() != "hello" {
		t.Fatalf(
			"wanted entry `{9 hello}`; found `{%d %s}`",
			found.Index,
			found.Name,
		)
	}
}

func TestDecodeDirEntries(t *testing.T) {
	b := make([]byte, 3*DirEntrySize)
	b[0] = 4
	copy(b[1:], "alpha")
	copy(b[2*DirEntrySize+1:], "0123456789")
	b[2*DirEntrySize] = 6

	entries := DecodeDirEntries(b)
	if len(entries) != 3 {
		t.Fatalf("wanted `3` entries; found `%d`", len(entries))
	}
	if entries[0].Index != 4 || entries[0].Name.String() != "alpha" {
		t.Fatalf("entry 0: found `{%d %s}`", entries[0].Index, entries[0].Name)
	}
	if entries[1].Live() {
		t.Fatal("entry 1: wanted tombstone; found live entry")
	}
	if entries[2].Index != 6 || entries[2].Name.String() != "0123456789" {
		t.Fatalf("entry 2: found `{%d %s}`", entries[2].Index, entries[2].Name)
	}
}
