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

// PostgresPDFRepository implements the PDFRepository interface
type PostgresPDFRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewPDFRepository creates a new PDF repository
func NewPDFRepository(config *RepositoryConfig) repositories.PDFRepository {
	return &PostgresPDFRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new PDF record
func (r *PostgresPDFRepository) Create(ctx context.Context, pdf *models.PDF) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (filename, stored_name, folder_id, tags, size, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING id, created_at
	`, r.tables.PDFs)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		pdf.Filename,
		pdf.StoredName,
		pdf.FolderID,
		pdf.Tags,
		pdf.Size,
	).Scan(&pdf.ID, &pdf.CreatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: "folder not found"}
		}
		return fmt.Errorf("create pdf: %w", err)
	}

	pdf.Path = "uploads/" + pdf.StoredName
	return nil
}

// GetByID retrieves a PDF by ID with its folder name resolved
func (r *PostgresPDFRepository) GetByID(ctx context.Context, id int64) (*models.PDF, error) {
	query := fmt.Sprintf(`
		SELECT p.id, p.filename, p.stored_name, p.folder_id, COALESCE(f.name, ''),
		       p.tags, p.size, p.created_at
		FROM %s p
		LEFT JOIN %s f ON f.id = p.folder_id
		WHERE p.id = $1
	`, r.tables.PDFs, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	pdf, err := scanPDF(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("pdf %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get pdf: %w", err)
	}

	return pdf, nil
}

// List retrieves PDFs matching the filter, newest first
func (r *PostgresPDFRepository) List(ctx context.Context, filter *repositories.PDFFilter) ([]*models.PDF, error) {
	query := fmt.Sprintf(`
		SELECT p.id, p.filename, p.stored_name, p.folder_id, COALESCE(f.name, ''),
		       p.tags, p.size, p.created_at
		FROM %s p
		LEFT JOIN %s f ON f.id = p.folder_id
		WHERE 1=1
	`, r.tables.PDFs, r.tables.Folders)

	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		switch {
		case filter.Unfiled:
			query += " AND p.folder_id IS NULL"
		case filter.FolderID != nil:
			query += fmt.Sprintf(" AND p.folder_id = %s", arg(*filter.FolderID))
		}

		if filter.Tag != "" {
			query += fmt.Sprintf(" AND %s = ANY(p.tags)", arg(filter.Tag))
		}

		if filter.Search != "" {
			p := arg("%" + filter.Search + "%")
			query += fmt.Sprintf(`
				AND (p.filename ILIKE %s
				     OR EXISTS (SELECT 1 FROM unnest(p.tags) t WHERE t ILIKE %s))`, p, p)
		}
	}

	query += " ORDER BY p.created_at DESC"

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pdfs: %w", err)
	}
	defer rows.Close()

	var pdfs []*models.PDF
	for rows.Next() {
		pdf, err := scanPDF(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pdf: %w", err)
		}
		pdfs = append(pdfs, pdf)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pdfs: %w", err)
	}

	return pdfs, nil
}

// Delete removes a single PDF record
func (r *PostgresPDFRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.PDFs)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete pdf: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pdf %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteBatch removes all records whose ID is in ids, returning the
// deleted rows so callers can clean up the stored files
func (r *PostgresPDFRepository) DeleteBatch(ctx context.Context, ids []int64) ([]*models.PDF, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE id = ANY($1)
		RETURNING id, filename, stored_name, folder_id, '', tags, size, created_at
	`, r.tables.PDFs)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("delete pdfs: %w", err)
	}
	defer rows.Close()

	var deleted []*models.PDF
	for rows.Next() {
		pdf, err := scanPDF(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deleted pdf: %w", err)
		}
		deleted = append(deleted, pdf)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("delete pdfs: %w", err)
	}

	return deleted, nil
}

// Move sets folder_id for every ID in ids; nil means unfiled
func (r *PostgresPDFRepository) Move(ctx context.Context, ids []int64, folderID *int64) (int, error) {
	query := fmt.Sprintf(`UPDATE %s SET folder_id = $1 WHERE id = ANY($2)`, r.tables.PDFs)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, folderID, ids)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return 0, &domain.NotFoundError{Message: "folder not found"}
		}
		return 0, fmt.Errorf("move pdfs: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// UpdateTags replaces a PDF's tag list
func (r *PostgresPDFRepository) UpdateTags(ctx context.Context, id int64, tags []string) error {
	query := fmt.Sprintf(`UPDATE %s SET tags = $1 WHERE id = $2`, r.tables.PDFs)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, tags, id)
	if err != nil {
		return fmt.Errorf("update pdf tags: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pdf %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Rename updates a PDF's display filename
func (r *PostgresPDFRepository) Rename(ctx context.Context, id int64, filename string) error {
	query := fmt.Sprintf(`UPDATE %s SET filename = $1 WHERE id = $2`, r.tables.PDFs)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, filename, id)
	if err != nil {
		return fmt.Errorf("rename pdf: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pdf %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// CountUnfiled returns the number of PDFs without a folder
func (r *PostgresPDFRepository) CountUnfiled(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE folder_id IS NULL`, r.tables.PDFs)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unfiled pdfs: %w", err)
	}

	return count, nil
}

// CountByFolder returns the number of PDFs in a folder
func (r *PostgresPDFRepository) CountByFolder(ctx context.Context, folderID int64) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE folder_id = $1`, r.tables.PDFs)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, folderID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count pdfs in folder: %w", err)
	}

	return count, nil
}

// CountByTag returns the number of PDFs carrying the tag
func (r *PostgresPDFRepository) CountByTag(ctx context.Context, tag string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE $1 = ANY(tags)`, r.tables.PDFs)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, tag).Scan(&count); err != nil {
		return 0, fmt.Errorf("count pdfs by tag: %w", err)
	}

	return count, nil
}

// RemoveTagEverywhere strips a tag from every PDF carrying it
func (r *PostgresPDFRepository) RemoveTagEverywhere(ctx context.Context, tag string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET tags = array_remove(tags, $1) WHERE $1 = ANY(tags)
	`, r.tables.PDFs)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, tag); err != nil {
		return fmt.Errorf("remove tag from pdfs: %w", err)
	}

	return nil
}

// rowScanner covers pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPDF(row rowScanner) (*models.PDF, error) {
	var pdf models.PDF
	err := row.Scan(
		&pdf.ID,
		&pdf.Filename,
		&pdf.StoredName,
		&pdf.FolderID,
		&pdf.FolderName,
		&pdf.Tags,
		&pdf.Size,
		&pdf.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if pdf.Tags == nil {
		pdf.Tags = []string{}
	}
	pdf.Path = "uploads/" + pdf.StoredName
	return &pdf, nil
}
