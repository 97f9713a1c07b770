// Package alloc finds room for content in the data region. It keeps no
// state: occupied extents are derived from the inode table on every call.
package alloc

import (
	"fmt"
	"sort"

	"github.com/weberc2/myfs/pkg/layout"
	"github.com/weberc2/myfs/pkg/math"
	. "github.com/weberc2/myfs/pkg/types"
)

// Range is the half-open byte range [Start, End).
type Range struct {
	Start Byte `json:"start"`
	End   Byte `json:"end"`
}

func (r Range) Len() Byte { return r.End - r.Start }

// FindFreeExtent returns the start of the smallest gap that holds `size`
// bytes. Ties go to the lowest address.
func FindFreeExtent(
	inodes []Inode,
	geometry *layout.Geometry,
	size Byte,
) (Byte, error) {
	if size < 1 {
		return 0, fmt.Errorf(
			"finding free extent of `%d` bytes: %w",
			size,
			InvalidExtentSizeErr,
		)
	}

	var best Range
	found := false
	walkGaps(inodes, geometry, func(gap Range) {
		if gap.Len() < size {
			return
		}
		if !found || gap.Len() < best.Len() {
			best = gap
			found = true
		}
	})

	if !found {
		return 0, fmt.Errorf(
			"finding free extent of `%d` bytes: %w",
			size,
			NoSpaceErr,
		)
	}
	return best.Start, nil
}

// FreeRanges reports every non-empty gap in address order.
func FreeRanges(inodes []Inode, geometry *layout.Geometry) []Range {
	ranges := []Range{}
	walkGaps(inodes, geometry, func(gap Range) {
		ranges = append(ranges, gap)
	})
	return ranges
}

// walkGaps visits the gaps between allocated extents. Every extent is
// followed by a one byte separator before the next gap may start.
func walkGaps(inodes []Inode, geometry *layout.Geometry, visit func(Range)) {
	extents := make([]Range, 0, len(inodes))
	for i := range inodes {
		if inodes[i].State == InodeAllocated {
			extents = append(extents, Range{
				Start: inodes[i].Address,
				End:   inodes[i].End(),
			})
		}
	}
	sort.Slice(extents, func(i, j int) bool {
		return extents[i].Start < extents[j].Start
	})

	cursor := geometry.DataStart
	for _, extent := range extents {
		if extent.Start > cursor {
			visit(Range{Start: cursor, End: extent.Start})
		}
		cursor = math.Max(cursor, extent.End+1)
	}
	if geometry.Capacity > cursor {
		visit(Range{Start: cursor, End: geometry.Capacity})
	}
}
