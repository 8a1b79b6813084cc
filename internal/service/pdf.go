package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/matthewyanek/pdf-classroom-manager/internal/domain"
	"github.com/matthewyanek/pdf-classroom-manager/internal/domain/models"
	"github.com/matthewyanek/pdf-classroom-manager/internal/domain/repositories"
)

// Batch operations accepted by BatchUpdate
const (
	BatchDelete     = "delete"
	BatchAddTags    = "add_tags"
	BatchRemoveTags = "remove_tags"
)

// ListPDFsRequest narrows a PDF listing. Unfiled and FolderID are
// mutually exclusive; Unfiled wins.
type ListPDFsRequest struct {
	FolderID *int64
	Unfiled  bool
	Tag      string
	Search   string
}

// UploadRequest carries one multipart upload.
type UploadRequest struct {
	Filename string
	File     io.Reader
	Tags     string // comma-separated, as submitted by the form
	FolderID *int64
}

func (r *UploadRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Filename, validation.Required,
			validation.By(func(interface{}) error {
				if !strings.HasSuffix(strings.ToLower(r.Filename), ".pdf") {
					return fmt.Errorf("only PDF files are allowed")
				}
				return nil
			})),
		validation.Field(&r.File, validation.Required),
	)
}

// MoveRequest moves a batch of PDFs to a folder (nil = unfiled).
type MoveRequest struct {
	PDFIDs   []int64 `json:"pdf_ids"`
	FolderID *int64  `json:"folder_id"`
}

func (r *MoveRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PDFIDs, validation.Required.Error("no PDFs specified")),
	)
}

// BatchRequest applies one operation to a set of PDFs.
type BatchRequest struct {
	Operation string  `json:"operation"`
	PDFIDs    []int64 `json:"pdf_ids"`
	Tags      []string `json:"tags,omitempty"`
}

func (r *BatchRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Operation, validation.Required,
			validation.In(BatchDelete, BatchAddTags, BatchRemoveTags)),
		validation.Field(&r.PDFIDs, validation.Required.Error("no PDFs specified")),
		validation.Field(&r.Tags, validation.Required.When(r.Operation != BatchDelete)),
	)
}

// BatchResult summarizes a bulk mutation.
type BatchResult struct {
	Status       string `json:"status"`
	DeletedCount int    `json:"deleted_count,omitempty"`
	MovedCount   int    `json:"moved_count,omitempty"`
	UpdatedCount int    `json:"updated_count,omitempty"`
	FilesDeleted int    `json:"files_deleted,omitempty"`
	FilesFailed  int    `json:"files_failed,omitempty"`
}

// DeleteResult acknowledges a single delete.
type DeleteResult struct {
	Status      string `json:"status"`
	ID          int64  `json:"id"`
	FileDeleted bool   `json:"file_deleted"`
}

// PDFService owns PDF records and their stored files.
type PDFService interface {
	List(ctx context.Context, req *ListPDFsRequest) ([]*models.PDF, error)
	Get(ctx context.Context, id int64) (*models.PDF, error)
	Upload(ctx context.Context, req *UploadRequest) (*models.PDF, error)
	Delete(ctx context.Context, id int64) (*DeleteResult, error)
	Move(ctx context.Context, req *MoveRequest) (*BatchResult, error)
	BatchUpdate(ctx context.Context, req *BatchRequest) (*BatchResult, error)
	UpdateTags(ctx context.Context, id int64, tags []string) (*models.PDF, error)
	Rename(ctx context.Context, id int64, filename string) (*models.PDF, error)
	UnfiledCount(ctx context.Context) (int, error)
	// OpenFile returns the stored file plus the record, for view/download
	OpenFile(ctx context.Context, id int64) (*models.PDF, io.ReadSeekCloser, error)
}

type pdfService struct {
	pdfRepo    repositories.PDFRepository
	folderRepo repositories.FolderRepository
	tagRepo    repositories.TagRepository
	txManager  repositories.TransactionManager
	files      *FileStore
	inspector  *PDFInspector
	logger     *slog.Logger
}

// NewPDFService creates a new PDF service
func NewPDFService(
	pdfRepo repositories.PDFRepository,
	folderRepo repositories.FolderRepository,
	tagRepo repositories.TagRepository,
	txManager repositories.TransactionManager,
	files *FileStore,
	inspector *PDFInspector,
	logger *slog.Logger,
) PDFService {
	return &pdfService{
		pdfRepo:    pdfRepo,
		folderRepo: folderRepo,
		tagRepo:    tagRepo,
		txManager:  txManager,
		files:      files,
		inspector:  inspector,
		logger:     logger,
	}
}

func (s *pdfService) List(ctx context.Context, req *ListPDFsRequest) ([]*models.PDF, error) {
	if req == nil {
		req = &ListPDFsRequest{}
	}

	filter := &repositories.PDFFilter{
		FolderID: req.FolderID,
		Unfiled:  req.Unfiled,
		Tag:      strings.TrimSpace(req.Tag),
		Search:   strings.TrimSpace(req.Search),
	}

	pdfs, err := s.pdfRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if pdfs == nil {
		pdfs = []*models.PDF{}
	}
	return pdfs, nil
}

func (s *pdfService) Get(ctx context.Context, id int64) (*models.PDF, error) {
	return s.pdfRepo.GetByID(ctx, id)
}

func (s *pdfService) Upload(ctx context.Context, req *UploadRequest) (*models.PDF, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Verify the target folder before touching the disk
	if req.FolderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.FolderID); err != nil {
			return nil, err
		}
	}

	storedName, size, err := s.files.Save(req.Filename, req.File)
	if err != nil {
		return nil, err
	}

	pages, err := s.inspector.Inspect(s.files.Path(storedName))
	if err != nil {
		if _, rmErr := s.files.Remove(storedName); rmErr != nil {
			s.logger.Warn("failed to remove rejected upload", "stored_name", storedName, "error", rmErr)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	tags := SplitTags(req.Tags)

	pdf := &models.PDF{
		Filename:   req.Filename,
		StoredName: storedName,
		FolderID:   req.FolderID,
		Tags:       tags,
		Size:       size,
	}

	if err := s.pdfRepo.Create(ctx, pdf); err != nil {
		// DB record failed after the file was saved; clean up the file
		if _, rmErr := s.files.Remove(storedName); rmErr != nil {
			s.logger.Warn("failed to remove orphaned upload", "stored_name", storedName, "error", rmErr)
		}
		return nil, err
	}

	if err := s.tagRepo.Upsert(ctx, tags); err != nil {
		s.logger.Warn("failed to upsert tags after upload", "pdf_id", pdf.ID, "error", err)
	}

	if req.FolderID != nil {
		if folder, err := s.folderRepo.GetByID(ctx, *req.FolderID); err == nil {
			pdf.FolderName = folder.Name
		}
	}

	s.logger.Info("pdf uploaded",
		"pdf_id", pdf.ID,
		"filename", pdf.Filename,
		"size", size,
		"pages", pages,
	)

	return pdf, nil
}

func (s *pdfService) Delete(ctx context.Context, id int64) (*DeleteResult, error) {
	pdf, err := s.pdfRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// File first; a missing file still deletes the record
	fileDeleted, err := s.files.Remove(pdf.StoredName)
	if err != nil {
		s.logger.Warn("failed to delete stored file", "pdf_id", id, "error", err)
	}

	if err := s.pdfRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	return &DeleteResult{Status: "success", ID: id, FileDeleted: fileDeleted}, nil
}

func (s *pdfService) Move(ctx context.Context, req *MoveRequest) (*BatchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Verify target folder exists; nil means unfiled
	if req.FolderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.FolderID); err != nil {
			return nil, err
		}
	}

	moved, err := s.pdfRepo.Move(ctx, req.PDFIDs, req.FolderID)
	if err != nil {
		return nil, err
	}

	return &BatchResult{Status: "success", MovedCount: moved}, nil
}

func (s *pdfService) BatchUpdate(ctx context.Context, req *BatchRequest) (*BatchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	switch req.Operation {
	case BatchDelete:
		return s.deleteBatch(ctx, req.PDFIDs)
	case BatchAddTags:
		return s.retagBatch(ctx, req.PDFIDs, req.Tags, addTags)
	case BatchRemoveTags:
		return s.retagBatch(ctx, req.PDFIDs, req.Tags, removeTags)
	default:
		return nil, fmt.Errorf("%w: unknown operation %q", domain.ErrValidation, req.Operation)
	}
}

func (s *pdfService) deleteBatch(ctx context.Context, ids []int64) (*BatchResult, error) {
	deleted, err := s.pdfRepo.DeleteBatch(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{Status: "success", DeletedCount: len(deleted)}
	for _, pdf := range deleted {
		removed, err := s.files.Remove(pdf.StoredName)
		if err != nil {
			s.logger.Warn("failed to delete stored file", "pdf_id", pdf.ID, "error", err)
			result.FilesFailed++
			continue
		}
		if removed {
			result.FilesDeleted++
		}
	}

	return result, nil
}

type tagOp func(current, update []string) []string

func addTags(current, update []string) []string {
	return mergeTags(append(append([]string{}, current...), update...))
}

func removeTags(current, update []string) []string {
	drop := make(map[string]bool, len(update))
	for _, t := range update {
		drop[t] = true
	}
	kept := []string{}
	for _, t := range current {
		if !drop[t] {
			kept = append(kept, t)
		}
	}
	return kept
}

// retagBatch applies the tag operation to each PDF inside one
// transaction so a half-applied batch never commits.
func (s *pdfService) retagBatch(ctx context.Context, ids []int64, tags []string, op tagOp) (*BatchResult, error) {
	tags = mergeTags(tags)

	updated := 0
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		for _, id := range ids {
			pdf, err := s.pdfRepo.GetByID(txCtx, id)
			if err != nil {
				return err
			}
			if err := s.pdfRepo.UpdateTags(txCtx, id, op(pdf.Tags, tags)); err != nil {
				return err
			}
			updated++
		}
		return s.tagRepo.Upsert(txCtx, tags)
	})
	if err != nil {
		return nil, err
	}

	return &BatchResult{Status: "success", UpdatedCount: updated}, nil
}

func (s *pdfService) UpdateTags(ctx context.Context, id int64, tags []string) (*models.PDF, error) {
	tags = cleanTags(tags)

	if err := s.pdfRepo.UpdateTags(ctx, id, tags); err != nil {
		return nil, err
	}

	if err := s.tagRepo.Upsert(ctx, tags); err != nil {
		s.logger.Warn("failed to upsert tags", "pdf_id", id, "error", err)
	}

	return s.pdfRepo.GetByID(ctx, id)
}

func (s *pdfService) Rename(ctx context.Context, id int64, filename string) (*models.PDF, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, fmt.Errorf("%w: new filename is required", domain.ErrValidation)
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		filename += ".pdf"
	}

	if err := s.pdfRepo.Rename(ctx, id, filename); err != nil {
		return nil, err
	}

	return s.pdfRepo.GetByID(ctx, id)
}

func (s *pdfService) UnfiledCount(ctx context.Context) (int, error) {
	return s.pdfRepo.CountUnfiled(ctx)
}

func (s *pdfService) OpenFile(ctx context.Context, id int64) (*models.PDF, io.ReadSeekCloser, error) {
	pdf, err := s.pdfRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	f, err := s.files.Open(pdf.StoredName)
	if err != nil {
		return nil, nil, fmt.Errorf("pdf file not found on server: %w", domain.ErrNotFound)
	}

	return pdf, f, nil
}

// SplitTags parses a comma-separated tag string, trimming whitespace
// and dropping empties. Duplicates within one submission are collapsed.
func SplitTags(csv string) []string {
	return mergeTags(strings.Split(csv, ","))
}

// cleanTags trims and drops empties but keeps duplicates untouched:
// whether duplicate tags should be collapsed here is an open product
// question, and the UI already prevents duplicate entry.
func cleanTags(tags []string) []string {
	cleaned := []string{}
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return cleaned
}

func mergeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	merged := []string{}
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" && !seen[t] {
			seen[t] = true
			merged = append(merged, t)
		}
	}
	return merged
}
