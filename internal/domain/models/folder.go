package models

import (
	"time"
)

type Folder struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color,omitempty" db:"color"` // One of the configured palette, "" = none
	PDFCount  int       `json:"pdf_count"`                  // Computed per query, not stored
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FolderList is the folder collection response shape. UnfiledCount rides
// along so clients get folder counts and the unfiled bucket in one read.
type FolderList struct {
	Folders      []*Folder `json:"folders"`
	UnfiledCount int       `json:"unfiled_count"`
}
