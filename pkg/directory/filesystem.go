package directory

import (
	"github.com/sirupsen/logrus"

	"github.com/weberc2/myfs/pkg/io"
	"github.com/weberc2/myfs/pkg/layout"
	. "github.com/weberc2/myfs/pkg/types"
)

// FileSystem bundles what the directory operations need to reach the
// volume.
type FileSystem struct {
	Volume   io.Volume
	Geometry layout.Geometry
	Inodes   InodeTable
	Logger   logrus.FieldLogger
}
