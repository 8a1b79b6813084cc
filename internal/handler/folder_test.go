package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matthewyanek/pdf-classroom-manager/internal/domain"
	"github.com/matthewyanek/pdf-classroom-manager/internal/domain/models"
	"github.com/matthewyanek/pdf-classroom-manager/internal/service"
)

type stubFolderService struct {
	list    *models.FolderList
	created *service.CreateFolderRequest
	err     error
}

func (s *stubFolderService) List(ctx context.Context) (*models.FolderList, error) {
	return s.list, s.err
}

func (s *stubFolderService) Get(ctx context.Context, id int64) (*models.Folder, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, f := range s.list.Folders {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, &domain.NotFoundError{Message: "folder not found"}
}

func (s *stubFolderService) Create(ctx context.Context, req *service.CreateFolderRequest) (*models.Folder, error) {
	s.created = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.Folder{ID: 9, Name: req.Name, Color: req.Color}, nil
}

func (s *stubFolderService) Update(ctx context.Context, id int64, req *service.UpdateFolderRequest) (*models.Folder, error) {
	if s.err != nil {
		return nil, s.err
	}
	folder := &models.Folder{ID: id}
	if req.Name != nil {
		folder.Name = *req.Name
	}
	return folder, nil
}

func (s *stubFolderService) Delete(ctx context.Context, id int64) error {
	return s.err
}

func newFolderMux(svc service.FolderService) *http.ServeMux {
	h := NewFolderHandler(svc, testLogger())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/folders", h.ListFolders)
	mux.HandleFunc("POST /api/folders", h.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", h.GetFolder)
	mux.HandleFunc("PUT /api/folders/{id}", h.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", h.DeleteFolder)
	return mux
}

func TestListFolders(t *testing.T) {
	svc := &stubFolderService{list: &models.FolderList{
		Folders:      []*models.Folder{{ID: 1, Name: "Math", PDFCount: 2}},
		UnfiledCount: 5,
	}}
	mux := newFolderMux(svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/folders", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var list models.FolderList
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.UnfiledCount != 5 {
		t.Errorf("unfiled_count = %d, want 5", list.UnfiledCount)
	}
	if len(list.Folders) != 1 || list.Folders[0].PDFCount != 2 {
		t.Errorf("folders = %v, want Math with 2 PDFs", list.Folders)
	}
}

func TestCreateFolder(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &stubFolderService{}
		mux := newFolderMux(svc)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/folders", strings.NewReader(`{"name":"Science","color":"green"}`)))
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if svc.created == nil || svc.created.Name != "Science" {
			t.Errorf("created = %+v, want Science", svc.created)
		}
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		svc := &stubFolderService{err: &domain.ConflictError{Message: "folder exists", ResourceType: "folder", ResourceID: 2}}
		mux := newFolderMux(svc)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/folders", strings.NewReader(`{"name":"Science"}`)))
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		mux := newFolderMux(&stubFolderService{})

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/folders", strings.NewReader(`{`)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestDeleteFolder(t *testing.T) {
	mux := newFolderMux(&stubFolderService{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/folders/3", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}
