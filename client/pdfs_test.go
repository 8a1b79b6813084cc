package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_ListPDFs(t *testing.T) {
	records := []map[string]interface{}{
		{"id": 1, "filename": "a.pdf", "tags": []string{"math"}},
		{"id": 2, "filename": "b.pdf"},
	}

	shapes := map[string]interface{}{
		"bare array":       records,
		"pdfs envelope":    map[string]interface{}{"pdfs": records},
		"results envelope": map[string]interface{}{"results": records},
	}

	for name, response := range shapes {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/pdfs" {
					t.Errorf("path = %v, want /api/pdfs", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(response)
			}))
			defer server.Close()

			c := NewClient(server.URL, WithLogger(discardLogger()))
			pdfs, err := c.ListPDFs(context.Background(), nil)
			if err != nil {
				t.Fatalf("ListPDFs failed: %v", err)
			}
			if len(pdfs) != 2 {
				t.Fatalf("len = %d, want 2", len(pdfs))
			}
			if pdfs[0].Filename != "a.pdf" {
				t.Errorf("filename = %v, want a.pdf", pdfs[0].Filename)
			}
			if len(pdfs[1].Tags) != 0 {
				t.Errorf("missing tags should normalize to empty, got %v", pdfs[1].Tags)
			}
		})
	}
}

func TestClient_ListPDFs_QueryParams(t *testing.T) {
	tests := []struct {
		name string
		opts *ListPDFsOptions
		want map[string]string
	}{
		{"no filter", &ListPDFsOptions{}, map[string]string{"folder_id": "", "unfiled": ""}},
		{"specific folder", &ListPDFsOptions{Folder: InFolder(3)}, map[string]string{"folder_id": "3", "unfiled": ""}},
		{"unfiled", &ListPDFsOptions{Folder: UnfiledOnly()}, map[string]string{"folder_id": "", "unfiled": "true"}},
		{"tag and search", &ListPDFsOptions{Tag: "math", Search: "quiz"}, map[string]string{"tag": "math", "search": "quiz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for key, want := range tt.want {
					if got := r.URL.Query().Get(key); got != want {
						t.Errorf("query %s = %q, want %q", key, got, want)
					}
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte("[]"))
			}))
			defer server.Close()

			c := NewClient(server.URL, WithLogger(discardLogger()))
			if _, err := c.ListPDFs(context.Background(), tt.opts); err != nil {
				t.Fatalf("ListPDFs failed: %v", err)
			}
		})
	}
}

// Records with a zero or negative folder id occasionally leak into
// unfiled responses; the client re-filters them to nil.
func TestClient_ListPDFs_UnfiledReFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 1, "folder_id": nil},
			{"id": 2, "folder_id": 0},
			{"id": 3, "folder_id": -1},
			{"id": 4, "folder_id": 5},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, WithLogger(discardLogger()))
	pdfs, err := c.ListPDFs(context.Background(), &ListPDFsOptions{Folder: UnfiledOnly()})
	if err != nil {
		t.Fatalf("ListPDFs failed: %v", err)
	}

	if len(pdfs) != 3 {
		t.Fatalf("len = %d, want 3 (filed record dropped)", len(pdfs))
	}
	for _, p := range pdfs {
		if p.FolderID != nil {
			t.Errorf("pdf %d folder_id = %d, want nil", p.ID, *p.FolderID)
		}
	}
}

func TestClient_UploadPDF(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pdfs/upload" {
			t.Errorf("path = %v, want /api/pdfs/upload", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("tags"); got != "math,quiz" {
			t.Errorf("tags = %q, want math,quiz", got)
		}
		if got := r.FormValue("folder_id"); got != "3" {
			t.Errorf("folder_id = %q, want 3", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "test.pdf" {
			t.Errorf("filename = %q, want test.pdf", header.Filename)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 10, "filename": "test.pdf", "folder_id": 3, "tags": []string{"math", "quiz"},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, WithLogger(discardLogger()))
	folderID := int64(3)
	pdf, err := c.UploadPDF(context.Background(), &UploadPDFRequest{
		Filename: "test.pdf",
		Content:  strings.NewReader("%PDF-1.4 fake"),
		Tags:     []string{"math", "quiz"},
		FolderID: &folderID,
	})
	if err != nil {
		t.Fatalf("UploadPDF failed: %v", err)
	}
	if pdf.ID != 10 {
		t.Errorf("id = %d, want 10", pdf.ID)
	}
}

func TestClient_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(server.URL, WithLogger(discardLogger()))
	_, err := c.GetPDF(context.Background(), 99)
	if err == nil {
		t.Fatal("GetPDF succeeded, want error")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound = false for %v", err)
	}
	if !strings.Contains(err.Error(), "GetPDF") {
		t.Errorf("error %q missing operation name", err)
	}
}

func TestClient_UpdateTagsAndRename(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/pdfs/7/tags":
			var body struct {
				Tags []string `json:"tags"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": 7, "tags": body.Tags})
		case "/api/pdfs/7/rename":
			var body struct {
				Filename string `json:"filename"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": 7, "filename": body.Filename})
		default:
			t.Errorf("unexpected path %v", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := NewClient(server.URL, WithLogger(discardLogger()))

	pdf, err := c.UpdateTags(context.Background(), 7, []string{"a", "b"})
	if err != nil {
		t.Fatalf("UpdateTags failed: %v", err)
	}
	if len(pdf.Tags) != 2 {
		t.Errorf("tags = %v, want 2", pdf.Tags)
	}

	pdf, err = c.RenamePDF(context.Background(), 7, "renamed.pdf")
	if err != nil {
		t.Fatalf("RenamePDF failed: %v", err)
	}
	if pdf.Filename != "renamed.pdf" {
		t.Errorf("filename = %q, want renamed.pdf", pdf.Filename)
	}
}

func TestClient_UnfiledCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pdfs/unfiled-count" {
			t.Errorf("path = %v", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"count": 6}`)
	}))
	defer server.Close()

	c := NewClient(server.URL, WithLogger(discardLogger()))
	count, err := c.UnfiledCount(context.Background())
	if err != nil {
		t.Fatalf("UnfiledCount failed: %v", err)
	}
	if count != 6 {
		t.Errorf("count = %d, want 6", count)
	}
}

func TestClient_GenerateTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["pdf_id"] != float64(4) {
			t.Errorf("pdf_id = %v, want 4", body["pdf_id"])
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string][]string{"tags": {"worksheet", "math"}})
	}))
	defer server.Close()

	c := NewClient(server.URL, WithLogger(discardLogger()))
	id := int64(4)
	tags, err := c.GenerateTags(context.Background(), &id, "")
	if err != nil {
		t.Fatalf("GenerateTags failed: %v", err)
	}
	if len(tags) != 2 || tags[0] != "worksheet" {
		t.Errorf("tags = %v, want [worksheet math]", tags)
	}

	if _, err := c.GenerateTags(context.Background(), nil, ""); err == nil {
		t.Error("GenerateTags with no input succeeded, want error")
	}
}
