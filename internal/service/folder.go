package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/matthewyanek/pdf-classroom-manager/internal/config"
	"github.com/matthewyanek/pdf-classroom-manager/internal/domain"
	"github.com/matthewyanek/pdf-classroom-manager/internal/domain/models"
	"github.com/matthewyanek/pdf-classroom-manager/internal/domain/repositories"
)

const maxFolderNameLength = 100

// CreateFolderRequest creates a folder. Color is optional and must be
// in the configured palette.
type CreateFolderRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

func (r *CreateFolderRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required.Error("folder name cannot be empty"),
			validation.Length(1, maxFolderNameLength)),
	)
}

// UpdateFolderRequest renames a folder and/or changes its color.
// Nil fields are left unchanged.
type UpdateFolderRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

func (r *UpdateFolderRequest) Validate() error {
	if r.Name == nil && r.Color == nil {
		return fmt.Errorf("at least one of name or color must be provided")
	}
	var rules []*validation.FieldRules
	if r.Name != nil {
		rules = append(rules, validation.Field(&r.Name,
			validation.Required.Error("folder name cannot be empty"),
			validation.Length(1, maxFolderNameLength)))
	}
	return validation.ValidateStruct(r, rules...)
}

// FolderService owns folder CRUD and the unfiled count.
type FolderService interface {
	List(ctx context.Context) (*models.FolderList, error)
	Get(ctx context.Context, id int64) (*models.Folder, error)
	Create(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)
	Update(ctx context.Context, id int64, req *UpdateFolderRequest) (*models.Folder, error)
	Delete(ctx context.Context, id int64) error
}

type folderService struct {
	folderRepo repositories.FolderRepository
	pdfRepo    repositories.PDFRepository
	txManager  repositories.TransactionManager
	settings   *config.Settings
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	pdfRepo repositories.PDFRepository,
	txManager repositories.TransactionManager,
	settings *config.Settings,
	logger *slog.Logger,
) FolderService {
	return &folderService{
		folderRepo: folderRepo,
		pdfRepo:    pdfRepo,
		txManager:  txManager,
		settings:   settings,
		logger:     logger,
	}
}

func (s *folderService) List(ctx context.Context) (*models.FolderList, error) {
	folders, err := s.folderRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	unfiled, err := s.pdfRepo.CountUnfiled(ctx)
	if err != nil {
		return nil, err
	}

	return &models.FolderList{Folders: folders, UnfiledCount: unfiled}, nil
}

func (s *folderService) Get(ctx context.Context, id int64) (*models.Folder, error) {
	return s.folderRepo.GetByID(ctx, id)
}

func (s *folderService) Create(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if !s.settings.ValidColor(req.Color) {
		return nil, fmt.Errorf("%w: color %q is not in the palette", domain.ErrValidation, req.Color)
	}

	folder := &models.Folder{Name: req.Name, Color: req.Color}
	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created", "folder_id", folder.ID, "name", folder.Name)
	return folder, nil
}

func (s *folderService) Update(ctx context.Context, id int64, req *UpdateFolderRequest) (*models.Folder, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		folder.Name = strings.TrimSpace(*req.Name)
	}
	if req.Color != nil {
		if !s.settings.ValidColor(*req.Color) {
			return nil, fmt.Errorf("%w: color %q is not in the palette", domain.ErrValidation, *req.Color)
		}
		folder.Color = *req.Color
	}

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	return s.folderRepo.GetByID(ctx, id)
}

// Delete removes the folder and unfiles its PDFs in one transaction.
// The schema's ON DELETE SET NULL would unfile on its own, but doing it
// explicitly keeps the behavior visible and testable.
func (s *folderService) Delete(ctx context.Context, id int64) error {
	if _, err := s.folderRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		pdfs, err := s.pdfRepo.List(txCtx, &repositories.PDFFilter{FolderID: &id})
		if err != nil {
			return err
		}

		if len(pdfs) > 0 {
			ids := make([]int64, len(pdfs))
			for i, pdf := range pdfs {
				ids[i] = pdf.ID
			}
			if _, err := s.pdfRepo.Move(txCtx, ids, nil); err != nil {
				return err
			}
		}

		if err := s.folderRepo.Delete(txCtx, id); err != nil {
			return err
		}

		s.logger.Info("folder deleted", "folder_id", id, "unfiled_pdfs", len(pdfs))
		return nil
	})
}
