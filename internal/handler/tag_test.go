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

type stubTagService struct {
	tags    []*models.Tag
	deleted []string
}

func (s *stubTagService) List(ctx context.Context) ([]*models.Tag, error) {
	return s.tags, nil
}

func (s *stubTagService) Get(ctx context.Context, name string) (*models.Tag, error) {
	for _, t := range s.tags {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, &domain.NotFoundError{Message: "tag not found"}
}

func (s *stubTagService) Delete(ctx context.Context, name string) error {
	s.deleted = append(s.deleted, name)
	return nil
}

type stubTagger struct {
	lastReq *service.GenerateTagsRequest
	tags    []string
}

func (s *stubTagger) Generate(ctx context.Context, req *service.GenerateTagsRequest) ([]string, error) {
	s.lastReq = req
	return s.tags, nil
}

func newTagMux(svc service.TagService, tagger service.TaggerService) *http.ServeMux {
	h := NewTagHandler(svc, tagger, testLogger())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tags", h.ListTags)
	mux.HandleFunc("POST /api/tags/generate", h.GenerateTags)
	mux.HandleFunc("GET /api/tags/{name}", h.GetTag)
	mux.HandleFunc("DELETE /api/tags/{name}", h.DeleteTag)
	return mux
}

func TestListTags(t *testing.T) {
	svc := &stubTagService{tags: []*models.Tag{{Name: "math", Count: 2}}}
	mux := newTagMux(svc, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/tags", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var tags []*models.Tag
	if err := json.NewDecoder(rec.Body).Decode(&tags); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "math" {
		t.Errorf("tags = %v, want [math]", tags)
	}
}

func TestDeleteTag(t *testing.T) {
	svc := &stubTagService{}
	mux := newTagMux(svc, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/tags/homework", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != "homework" {
		t.Errorf("deleted = %v, want [homework]", svc.deleted)
	}
}

func TestGenerateTags(t *testing.T) {
	t.Run("with tagger", func(t *testing.T) {
		tagger := &stubTagger{tags: []string{"worksheet", "math"}}
		mux := newTagMux(&stubTagService{}, tagger)

		body := strings.NewReader(`{"pdf_id": 7}`)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/tags/generate", body))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var result map[string][]string
		_ = json.NewDecoder(rec.Body).Decode(&result)
		if len(result["tags"]) != 2 {
			t.Errorf("tags = %v, want 2 suggestions", result["tags"])
		}
		if tagger.lastReq.PDFID == nil || *tagger.lastReq.PDFID != 7 {
			t.Errorf("pdf_id = %v, want 7", tagger.lastReq.PDFID)
		}
	})

	t.Run("tagger not configured", func(t *testing.T) {
		mux := newTagMux(&stubTagService{}, nil)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/tags/generate", strings.NewReader(`{"text":"x"}`)))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})
}
