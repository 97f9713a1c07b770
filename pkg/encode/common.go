package encode

import (
	"encoding/binary"

	. "github.com/weberc2/myfs/pkg/types"
)

func putBytePointer(b []byte, start Byte, u Byte) {
	putU32(b, start, uint32(u))
}

func getBytePointer(b []byte, start Byte) Byte {
	return Byte(getU32(b, start))
}

func putU32(b []byte, start Byte, u uint32) {
	binary.LittleEndian.PutUint32(b[start:start+4], u)
}

func getU32(b []byte, start Byte) uint32 {
	return binary.LittleEndian.Uint32(b[start : start+4])
}

func putU8(b []byte, start Byte, u uint8) {
	b[start] = u
}

func getU8(b []byte, start Byte) uint8 {
	return b[start]
}

func putBool(b []byte, start Byte, v bool) {
	if v {
		putU8(b, start, 1)
		return
	}
	putU8(b, start, 0)
}

func getBool(b []byte, start Byte) bool {
	return getU8(b, start) != 0
}
