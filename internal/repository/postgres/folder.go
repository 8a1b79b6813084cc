package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matthewyanek/pdf-classroom-manager/internal/domain"
	"github.com/matthewyanek/pdf-classroom-manager/internal/domain/models"
	"github.com/matthewyanek/pdf-classroom-manager/internal/domain/repositories"
)

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, color, created_at)
		VALUES ($1, $2, now())
		RETURNING id, created_at
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, folder.Name, folder.Color).
		Scan(&folder.ID, &folder.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			existing, queryErr := r.GetByName(ctx, folder.Name)
			if queryErr != nil {
				return fmt.Errorf("folder %q already exists: %w", folder.Name, domain.ErrConflict)
			}
			return &domain.ConflictError{
				Message:      fmt.Sprintf("folder with name %q already exists", folder.Name),
				ResourceType: "folder",
				ResourceID:   existing.ID,
			}
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID with its PDF count
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id int64) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT f.id, f.name, COALESCE(f.color, ''), f.created_at,
		       (SELECT COUNT(*) FROM %s p WHERE p.folder_id = f.id)
		FROM %s f
		WHERE f.id = $1
	`, r.tables.PDFs, r.tables.Folders)

	var folder models.Folder
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&folder.ID, &folder.Name, &folder.Color, &folder.CreatedAt, &folder.PDFCount,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// GetByName retrieves a folder by its name
func (r *PostgresFolderRepository) GetByName(ctx context.Context, name string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT f.id, f.name, COALESCE(f.color, ''), f.created_at,
		       (SELECT COUNT(*) FROM %s p WHERE p.folder_id = f.id)
		FROM %s f
		WHERE f.name = $1
	`, r.tables.PDFs, r.tables.Folders)

	var folder models.Folder
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, name).Scan(
		&folder.ID, &folder.Name, &folder.Color, &folder.CreatedAt, &folder.PDFCount,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %q: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder by name: %w", err)
	}

	return &folder, nil
}

// List retrieves all folders with their PDF counts
func (r *PostgresFolderRepository) List(ctx context.Context) ([]*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT f.id, f.name, COALESCE(f.color, ''), f.created_at,
		       (SELECT COUNT(*) FROM %s p WHERE p.folder_id = f.id)
		FROM %s f
		ORDER BY f.name
	`, r.tables.PDFs, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := []*models.Folder{}
	for rows.Next() {
		var folder models.Folder
		if err := rows.Scan(
			&folder.ID, &folder.Name, &folder.Color, &folder.CreatedAt, &folder.PDFCount,
		); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, &folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	return folders, nil
}

// Update persists name and color changes
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s SET name = $1, color = $2 WHERE id = $3
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, folder.Name, folder.Color, folder.ID)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("folder with name %q already exists", folder.Name),
				ResourceType: "folder",
				ResourceID:   folder.ID,
			}
		}
		return fmt.Errorf("update folder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("folder %d: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a folder row
func (r *PostgresFolderRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
	}

	return nil
}
