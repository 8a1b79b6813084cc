package repositories

import (
	"context"

	"github.com/matthewyanek/pdf-classroom-manager/internal/domain/models"
)

// PDFFilter narrows a PDF listing. Zero value means "everything".
// Unfiled and FolderID are mutually exclusive; Unfiled wins when both
// are set so a stray folder_id can never widen an unfiled query.
type PDFFilter struct {
	FolderID *int64
	Unfiled  bool
	Tag      string
	Search   string
}

// PDFRepository defines data access operations for PDF records
type PDFRepository interface {
	// Create inserts a new PDF record, populating ID and CreatedAt
	Create(ctx context.Context, pdf *models.PDF) error

	// GetByID retrieves a PDF by ID
	GetByID(ctx context.Context, id int64) (*models.PDF, error)

	// List retrieves PDFs matching the filter, newest first, with
	// folder names resolved
	List(ctx context.Context, filter *PDFFilter) ([]*models.PDF, error)

	// Delete removes a single PDF record
	Delete(ctx context.Context, id int64) error

	// DeleteBatch removes all records whose ID is in ids, returning the
	// deleted rows so callers can clean up the stored files
	DeleteBatch(ctx context.Context, ids []int64) ([]*models.PDF, error)

	// Move sets folder_id (nil = unfiled) for every ID in ids
	Move(ctx context.Context, ids []int64, folderID *int64) (int, error)

	// UpdateTags replaces a PDF's tag list
	UpdateTags(ctx context.Context, id int64, tags []string) error

	// Rename updates a PDF's display filename
	Rename(ctx context.Context, id int64, filename string) error

	// CountUnfiled returns the number of PDFs without a folder
	CountUnfiled(ctx context.Context) (int, error)

	// CountByFolder returns the number of PDFs in a folder
	CountByFolder(ctx context.Context, folderID int64) (int, error)

	// CountByTag returns the number of PDFs carrying the tag
	CountByTag(ctx context.Context, tag string) (int, error)

	// RemoveTagEverywhere strips a tag from every PDF carrying it
	RemoveTagEverywhere(ctx context.Context, tag string) error
}
