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

// PostgresTagRepository implements the TagRepository interface
type PostgresTagRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewTagRepository creates a new tag repository
func NewTagRepository(config *RepositoryConfig) repositories.TagRepository {
	return &PostgresTagRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// List retrieves all tags with the number of PDFs carrying each
func (r *PostgresTagRepository) List(ctx context.Context) ([]*models.Tag, error) {
	query := fmt.Sprintf(`
		SELECT t.id, t.name, t.created_at,
		       (SELECT COUNT(*) FROM %s p WHERE t.name = ANY(p.tags))
		FROM %s t
		ORDER BY t.name
	`, r.tables.PDFs, r.tables.Tags)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := []*models.Tag{}
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.CreatedAt, &tag.Count); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, &tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	return tags, nil
}

// GetByName retrieves a tag by its unique name
func (r *PostgresTagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	query := fmt.Sprintf(`
		SELECT t.id, t.name, t.created_at,
		       (SELECT COUNT(*) FROM %s p WHERE t.name = ANY(p.tags))
		FROM %s t
		WHERE t.name = $1
	`, r.tables.PDFs, r.tables.Tags)

	var tag models.Tag
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, name).Scan(&tag.ID, &tag.Name, &tag.CreatedAt, &tag.Count)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("tag %q: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}

	return &tag, nil
}

// Upsert inserts tag names that are not yet present
func (r *PostgresTagRepository) Upsert(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (name, created_at)
		SELECT unnest($1::text[]), now()
		ON CONFLICT (name) DO NOTHING
	`, r.tables.Tags)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, names); err != nil {
		return fmt.Errorf("upsert tags: %w", err)
	}

	return nil
}

// Delete removes a tag row by name
func (r *PostgresTagRepository) Delete(ctx context.Context, name string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE name = $1`, r.tables.Tags)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, name)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tag %q: %w", name, domain.ErrNotFound)
	}

	return nil
}
