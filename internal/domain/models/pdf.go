package models

import (
	"time"
)

type PDF struct {
	ID         int64     `json:"id" db:"id"`
	Filename   string    `json:"filename" db:"filename"`
	StoredName string    `json:"-" db:"stored_name"` // Unique on-disk name, never exposed
	Path       string    `json:"path"`               // Legacy "uploads/<stored_name>" form kept for API consistency
	FolderID   *int64    `json:"folder_id" db:"folder_id"` // NULL = unfiled
	FolderName string    `json:"folder_name,omitempty"`    // Computed from the folder row, not stored
	Tags       []string  `json:"tags" db:"tags"`
	Size       int64     `json:"size" db:"size"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
