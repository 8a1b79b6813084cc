package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// fakeBackend is an in-memory server covering the endpoints the
// controller drives.
type fakeBackend struct {
	mu      sync.Mutex
	pdfs    map[int64]map[string]interface{}
	deleted []int64
	retags  [][]string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		pdfs: map[int64]map[string]interface{}{
			1: {"id": 1, "filename": "a.pdf", "folder_id": nil, "tags": []string{"math"}},
			2: {"id": 2, "filename": "b.pdf", "folder_id": nil, "tags": []string{}},
			3: {"id": 3, "filename": "c.pdf", "folder_id": 1, "tags": []string{}},
		},
	}
}

func (b *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/pdfs", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		records := make([]map[string]interface{}, 0, len(b.pdfs))
		for _, p := range b.pdfs {
			records = append(records, p)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(records)
	})

	mux.HandleFunc("GET /api/folders", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"folders":       []map[string]interface{}{{"id": 1, "name": "Math", "pdf_count": 1}},
			"unfiled_count": 2,
		})
	})

	mux.HandleFunc("GET /api/tags", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{{"name": "math", "count": 1}})
	})

	mux.HandleFunc("POST /api/pdfs/move", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			PDFIDs   []int64 `json:"pdf_ids"`
			FolderID *int64  `json:"folder_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("move body: %v", err)
		}
		b.mu.Lock()
		for _, id := range body.PDFIDs {
			if p, ok := b.pdfs[id]; ok {
				if body.FolderID == nil {
					p["folder_id"] = nil
				} else {
					p["folder_id"] = *body.FolderID
				}
			}
		}
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"status": "ok", "moved_count": len(body.PDFIDs)})
	})

	mux.HandleFunc("DELETE /api/pdfs/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		b.mu.Lock()
		delete(b.pdfs, id)
		b.deleted = append(b.deleted, id)
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"status": "ok", "id": id})
	})

	mux.HandleFunc("PUT /api/pdfs/{id}/tags", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var body struct {
			Tags []string `json:"tags"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		b.retags = append(b.retags, body.Tags)
		if p, ok := b.pdfs[id]; ok {
			p["tags"] = body.Tags
		}
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": id, "tags": body.Tags})
	})

	return mux
}

func newTestController(t *testing.T) (*Controller, *fakeBackend, func()) {
	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler(t))
	c := NewClient(server.URL, WithLogger(discardLogger()))
	ctrl := NewController(c, discardLogger())
	return ctrl, backend, server.Close
}

func TestController_MoveSelectedClearsSelectionAndRefreshes(t *testing.T) {
	ctrl, _, cleanup := newTestController(t)
	defer cleanup()

	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	ctrl.Selection().Update(1, true)
	ctrl.Selection().Update(2, true)

	target := int64(1)
	if err := ctrl.MoveSelected(context.Background(), &target); err != nil {
		t.Fatalf("MoveSelected failed: %v", err)
	}

	if ctrl.Selection().Len() != 0 {
		t.Errorf("selection len = %d, want 0 after move", ctrl.Selection().Len())
	}

	for _, p := range ctrl.PDFs().Items() {
		if p.ID == 1 || p.ID == 2 {
			if p.FolderID == nil || *p.FolderID != 1 {
				t.Errorf("pdf %d folder_id = %v, want 1 after refresh", p.ID, p.FolderID)
			}
		}
	}
}

func TestController_MoveSelectedRequiresSelection(t *testing.T) {
	ctrl, _, cleanup := newTestController(t)
	defer cleanup()

	if err := ctrl.MoveSelected(context.Background(), nil); err == nil {
		t.Error("MoveSelected with empty selection succeeded, want error")
	}
}

func TestController_DeleteSelected(t *testing.T) {
	ctrl, backend, cleanup := newTestController(t)
	defer cleanup()

	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	ctrl.Selection().Update(1, true)
	ctrl.Selection().Update(3, true)

	if err := ctrl.DeleteSelected(context.Background()); err != nil {
		t.Fatalf("DeleteSelected failed: %v", err)
	}

	if ctrl.Selection().Len() != 0 {
		t.Errorf("selection len = %d, want 0", ctrl.Selection().Len())
	}

	backend.mu.Lock()
	deleted := len(backend.deleted)
	backend.mu.Unlock()
	if deleted != 2 {
		t.Errorf("deleted %d PDFs, want 2", deleted)
	}

	items := ctrl.PDFs().Items()
	if len(items) != 1 || items[0].ID != 2 {
		t.Errorf("remaining = %v, want only pdf 2", items)
	}
}

func TestController_RetagDeduplicatesBeforeSubmit(t *testing.T) {
	ctrl, backend, cleanup := newTestController(t)
	defer cleanup()

	if _, err := ctrl.Retag(context.Background(), 1, []string{"a", " a ", "b", "a", ""}); err != nil {
		t.Fatalf("Retag failed: %v", err)
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if len(backend.retags) != 1 {
		t.Fatalf("retag calls = %d, want 1", len(backend.retags))
	}
	got := backend.retags[0]
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("submitted tags = %v, want [a b]", got)
	}
}

func TestController_FilterChangeClearsSelection(t *testing.T) {
	ctrl, _, cleanup := newTestController(t)
	defer cleanup()

	ctrl.Selection().Update(1, true)
	if err := ctrl.SetFolderFilter(context.Background(), UnfiledOnly()); err != nil {
		t.Fatalf("SetFolderFilter failed: %v", err)
	}
	if ctrl.Selection().Len() != 0 {
		t.Error("folder filter change did not clear selection")
	}

	ctrl.Selection().Update(1, true)
	if err := ctrl.SetTagFilter(context.Background(), "math"); err != nil {
		t.Fatalf("SetTagFilter failed: %v", err)
	}
	if ctrl.Selection().Len() != 0 {
		t.Error("tag filter change did not clear selection")
	}

	// Search narrows the view without invalidating the selection.
	ctrl.Selection().Update(1, true)
	if err := ctrl.SetSearch(context.Background(), "a"); err != nil {
		t.Fatalf("SetSearch failed: %v", err)
	}
	if ctrl.Selection().Len() != 1 {
		t.Error("search change should keep the selection")
	}
}

func TestController_Visible(t *testing.T) {
	ctrl, _, cleanup := newTestController(t)
	defer cleanup()

	if err := ctrl.SetTagFilter(context.Background(), "math"); err != nil {
		t.Fatalf("SetTagFilter failed: %v", err)
	}

	visible := ctrl.Visible()
	if len(visible) != 1 || visible[0].ID != 1 {
		ids := make([]string, 0, len(visible))
		for _, p := range visible {
			ids = append(ids, strconv.FormatInt(p.ID, 10))
		}
		t.Errorf("visible ids = %s, want just 1", strings.Join(ids, ","))
	}
}
