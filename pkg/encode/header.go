package encode

import (
	"github.com/weberc2/myfs/pkg/layout"
	. "github.com/weberc2/myfs/pkg/types"
)

func EncodeHeader(b *[layout.HeaderSize]byte) {
	p := b[:]
	copy(p[headerMagicStart:headerMagicEnd], layout.Magic)
	putU8(p, headerVersionStart, layout.Version)
}

// ValidHeader reports whether the header bytes carry the expected magic and
// version.
func ValidHeader(b *[layout.HeaderSize]byte) bool {
	p := b[:]
	return string(p[headerMagicStart:headerMagicEnd]) == layout.Magic &&
		getU8(p, headerVersionStart) == layout.Version
}

const (
	headerMagicStart = 0
	headerMagicSize  = Byte(layout.MagicLen)
	headerMagicEnd   = headerMagicStart + headerMagicSize

	headerVersionStart = headerMagicEnd
	headerVersionSize  = 1
	headerVersionEnd   = headerVersionStart + headerVersionSize
)
