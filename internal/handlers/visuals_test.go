package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"

	"github.com/brandloop/campaigns/internal/campaign"
	"github.com/brandloop/campaigns/internal/config"
)

// fakeObjectStore is a minimal ObjectStore for tests.
type fakeObjectStore struct {
	objects map[string][]byte
	keys    []string
}

func (f *fakeObjectStore) GetObject(_ context.Context, key string) (io.ReadCloser, error) {
	f.keys = append(f.keys, key)
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func newVisualsRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/v1/visuals/{filename}", h.GetVisual).Methods("GET")
	return r
}

func TestGetVisual_ServesLocalFile(t *testing.T) {
	dir := t.TempDir()
	want := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
	if err := os.WriteFile(filepath.Join(dir, "marketing_visual_20250101_120000_abcd1234.png"), want, 0o644); err != nil {
		t.Fatal(err)
	}
	h := NewHandler(&fakeOrchestrator{}, &fakeImageService{}, campaign.NewStore(), nil, &config.Config{OutputDir: dir})

	req := httptest.NewRequest(http.MethodGet, "/v1/visuals/marketing_visual_20250101_120000_abcd1234.png", nil)
	rec := httptest.NewRecorder()
	newVisualsRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content-type = %q", ct)
	}
	if !bytes.Equal(rec.Body.Bytes(), want) {
		t.Error("served bytes differ from the stored file")
	}
}

func TestGetVisual_FallsBackToObjectStore(t *testing.T) {
	want := []byte("png-bytes")
	store := &fakeObjectStore{objects: map[string][]byte{
		"campaigns/visuals/a.png": want,
	}}
	cfg := &config.Config{OutputDir: t.TempDir(), S3KeyPrefix: "campaigns/visuals"}
	h := NewHandler(&fakeOrchestrator{}, &fakeImageService{}, campaign.NewStore(), store, cfg)

	req := httptest.NewRequest(http.MethodGet, "/v1/visuals/a.png", nil)
	rec := httptest.NewRecorder()
	newVisualsRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !bytes.Equal(rec.Body.Bytes(), want) {
		t.Error("served bytes differ from the stored object")
	}
	if len(store.keys) != 1 || store.keys[0] != "campaigns/visuals/a.png" {
		t.Errorf("object store keys = %v", store.keys)
	}
}

func TestGetVisual_NotFound(t *testing.T) {
	tests := []struct {
		name  string
		store ObjectStore
	}{
		{"no store configured", nil},
		{"missing from store", &fakeObjectStore{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{OutputDir: t.TempDir()}
			h := NewHandler(&fakeOrchestrator{}, &fakeImageService{}, campaign.NewStore(), tt.store, cfg)

			req := httptest.NewRequest(http.MethodGet, "/v1/visuals/missing.png", nil)
			rec := httptest.NewRecorder()
			newVisualsRouter(h).ServeHTTP(rec, req)

			if rec.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want 404", rec.Code)
			}
		})
	}
}

func TestGetVisual_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "secret"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	h := NewHandler(&fakeOrchestrator{}, &fakeImageService{}, campaign.NewStore(), nil, &config.Config{OutputDir: filepath.Join(dir, "out")})

	for _, filename := range []string{"../secret", "a/../secret", `a\secret`, "..", ""} {
		req := httptest.NewRequest(http.MethodGet, "/v1/visuals/x", nil)
		req = mux.SetURLVars(req, map[string]string{"filename": filename})
		rec := httptest.NewRecorder()
		h.GetVisual(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("filename %q: status = %d, want 400", filename, rec.Code)
		}
	}
}
