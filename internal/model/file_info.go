package model

import (
	"io/fs"
	"time"
)

type FileItem struct {
	Name       string
	Path       string
	IsDir      bool
	Size       int64
	Mode       fs.FileMode
	ModifiedAt time.Time
}

type DirectoryListData struct {
	CurrentPath string
	Items       []FileItem
}
