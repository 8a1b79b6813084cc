package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestStore_FetchSuccess(t *testing.T) {
	store := NewStore(func(ctx context.Context) ([]int, error) {
		return []int{1, 2, 3}, nil
	})

	if store.State() != StateIdle {
		t.Fatalf("state = %v, want idle", store.State())
	}

	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if store.State() != StateReady {
		t.Errorf("state = %v, want ready", store.State())
	}
	if len(store.Items()) != 3 {
		t.Errorf("items = %v, want 3 elements", store.Items())
	}
	if store.Err() != "" {
		t.Errorf("err = %q, want empty", store.Err())
	}
}

func TestStore_FetchFailureEmptiesItems(t *testing.T) {
	calls := 0
	store := NewStore(func(ctx context.Context) ([]int, error) {
		calls++
		if calls == 1 {
			return []int{1, 2}, nil
		}
		return nil, errors.New("backend down")
	})

	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("first Fetch failed: %v", err)
	}

	if err := store.Fetch(context.Background()); err == nil {
		t.Fatal("second Fetch succeeded, want error")
	}
	if store.State() != StateError {
		t.Errorf("state = %v, want error", store.State())
	}
	if len(store.Items()) != 0 {
		t.Errorf("items = %v, want empty after failure", store.Items())
	}
	if store.Err() != "backend down" {
		t.Errorf("err = %q, want %q", store.Err(), "backend down")
	}

	// A later success clears the error again.
	calls = 0
	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("third Fetch failed: %v", err)
	}
	if store.Err() != "" || store.State() != StateReady {
		t.Errorf("state = %v err = %q, want ready with no error", store.State(), store.Err())
	}
}

// Two overlapping fetches resolve out of order; the result of the
// later-issued fetch must win even though it resolves first.
func TestStore_LatestRequestWins(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	call := 0
	var mu sync.Mutex

	store := NewStore(func(ctx context.Context) ([]string, error) {
		mu.Lock()
		call++
		n := call
		mu.Unlock()
		if n == 1 {
			close(firstStarted)
			<-releaseFirst
			return []string{"stale"}, nil
		}
		return []string{"fresh"}, nil
	})

	done := make(chan error, 1)
	go func() {
		done <- store.Fetch(context.Background())
	}()
	<-firstStarted

	// Second fetch is issued while the first is still in flight and
	// completes immediately.
	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("second Fetch failed: %v", err)
	}

	close(releaseFirst)
	<-done

	items := store.Items()
	if len(items) != 1 || items[0] != "fresh" {
		t.Errorf("items = %v, want [fresh]", items)
	}
	if store.State() != StateReady {
		t.Errorf("state = %v, want ready", store.State())
	}
}

func TestStore_RefreshBumpsGeneration(t *testing.T) {
	store := NewStore(func(ctx context.Context) ([]int, error) {
		return nil, nil
	})

	if store.Generation() != 0 {
		t.Fatalf("generation = %d, want 0", store.Generation())
	}
	_ = store.Refresh(context.Background())
	_ = store.Refresh(context.Background())
	if store.Generation() != 2 {
		t.Errorf("generation = %d, want 2", store.Generation())
	}
}

// The folder endpoint has returned both a bare array and an
// {folders, unfiled_count} envelope; equivalent data must produce the
// same store contents.
func TestFolderStore_EnvelopeShapes(t *testing.T) {
	folders := []map[string]interface{}{
		{"id": 1, "name": "Math", "color": "blue", "pdf_count": 2},
		{"id": 2, "name": "Science", "color": "green", "pdf_count": 0},
	}

	responses := map[string]interface{}{
		"bare array": folders,
		"envelope":   map[string]interface{}{"folders": folders, "unfiled_count": 3},
	}

	for name, response := range responses {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(response)
			}))
			defer server.Close()

			store := NewFolderStore(NewClient(server.URL, WithLogger(discardLogger())))
			if err := store.Fetch(context.Background()); err != nil {
				t.Fatalf("Fetch failed: %v", err)
			}

			items := store.Items()
			if len(items) != 2 {
				t.Fatalf("items = %d folders, want 2", len(items))
			}
			if items[0].Name != "Math" || items[0].PDFCount != 2 {
				t.Errorf("first folder = %+v, want Math with 2 PDFs", items[0])
			}

			wantUnfiled := 0
			if name == "envelope" {
				wantUnfiled = 3
			}
			if store.UnfiledCount() != wantUnfiled {
				t.Errorf("unfiled = %d, want %d", store.UnfiledCount(), wantUnfiled)
			}
		})
	}
}

func TestStoreState_String(t *testing.T) {
	if StateLoading.String() != "loading" || StateError.String() != "error" {
		t.Error("unexpected state names")
	}
}
