package model

import "time"

// TrashEntry represents a soft-deleted file/directory held in the trash directory.
type TrashEntry struct {
	OriginalPath string    `json:"original_path,omitempty"`
	TrashPath    string    `json:"trash_path"`
	Name         string    `json:"name"`
	DeletedAt    time.Time `json:"deleted_at"`
	IsDir        bool      `json:"is_dir"`
}
