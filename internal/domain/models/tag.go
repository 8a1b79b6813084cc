package models

import (
	"time"
)

type Tag struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Count     int       `json:"count"` // Number of PDFs carrying the tag, computed per query
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
