package directory

import (
	. "github.com/weberc2/myfs/pkg/types"
)

type FileInfo struct {
	Index InodeIndex `json:"index"`
	Name  string     `json:"name"`
	IsDir bool       `json:"isDir"`
	Size  Byte       `json:"size"`
}

func (fi *FileInfo) Equal(other *FileInfo) bool {
	return fi.Index == other.Index && fi.Name == other.Name &&
		fi.IsDir == other.IsDir && fi.Size == other.Size
}
