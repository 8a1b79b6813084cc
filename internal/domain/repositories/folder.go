package repositories

import (
	"context"

	"github.com/matthewyanek/pdf-classroom-manager/internal/domain/models"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id int64) (*models.Folder, error)

	// GetByName retrieves a folder by its name
	GetByName(ctx context.Context, name string) (*models.Folder, error)

	// List retrieves all folders
	List(ctx context.Context) ([]*models.Folder, error)

	// Update persists name and color changes
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes a folder row (contained PDFs are unfiled by the service)
	Delete(ctx context.Context, id int64) error
}

// TagRepository defines data access operations for the tag table
type TagRepository interface {
	// List retrieves all tags
	List(ctx context.Context) ([]*models.Tag, error)

	// GetByName retrieves a tag by its unique name
	GetByName(ctx context.Context, name string) (*models.Tag, error)

	// Upsert inserts tag names that are not yet present
	Upsert(ctx context.Context, names []string) error

	// Delete removes a tag row by name
	Delete(ctx context.Context, name string) error
}
