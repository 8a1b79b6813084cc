package service

import (
	"context"
	"log/slog"

	"github.com/matthewyanek/pdf-classroom-manager/internal/domain/models"
	"github.com/matthewyanek/pdf-classroom-manager/internal/domain/repositories"
)

// TagService owns the tag table. Tag rows are created as a side effect
// of uploads and retags; this service reads them and handles deletion.
type TagService interface {
	List(ctx context.Context) ([]*models.Tag, error)
	Get(ctx context.Context, name string) (*models.Tag, error)
	// Delete removes the tag and strips it from every PDF carrying it
	Delete(ctx context.Context, name string) error
}

type tagService struct {
	tagRepo   repositories.TagRepository
	pdfRepo   repositories.PDFRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewTagService creates a new tag service
func NewTagService(
	tagRepo repositories.TagRepository,
	pdfRepo repositories.PDFRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) TagService {
	return &tagService{
		tagRepo:   tagRepo,
		pdfRepo:   pdfRepo,
		txManager: txManager,
		logger:    logger,
	}
}

func (s *tagService) List(ctx context.Context) ([]*models.Tag, error) {
	return s.tagRepo.List(ctx)
}

func (s *tagService) Get(ctx context.Context, name string) (*models.Tag, error) {
	return s.tagRepo.GetByName(ctx, name)
}

func (s *tagService) Delete(ctx context.Context, name string) error {
	if _, err := s.tagRepo.GetByName(ctx, name); err != nil {
		return err
	}

	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.pdfRepo.RemoveTagEverywhere(txCtx, name); err != nil {
			return err
		}
		if err := s.tagRepo.Delete(txCtx, name); err != nil {
			return err
		}
		s.logger.Info("tag deleted", "tag", name)
		return nil
	})
}
