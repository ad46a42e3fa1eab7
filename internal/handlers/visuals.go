package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// GetVisual handles GET /v1/visuals/{filename} — serves a previously
// generated visual from the local output directory, falling back to the
// object store when a bucket is configured.
func (h *Handler) GetVisual(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]
	if filename == "" || strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		writeJSONError(w, http.StatusBadRequest, "Invalid filename")
		return
	}

	if f, err := os.Open(filepath.Join(h.cfg.OutputDir, filename)); err == nil {
		defer f.Close()
		serveVisual(w, f)
		return
	}

	if h.store == nil {
		writeJSONError(w, http.StatusNotFound, "Visual not found")
		return
	}

	body, err := h.store.GetObject(r.Context(), h.cfg.S3KeyPrefix+"/"+filename)
	if err != nil {
		log.Debug().Err(err).Str("filename", filename).Msg("Visual not in object store")
		writeJSONError(w, http.StatusNotFound, "Visual not found")
		return
	}
	defer body.Close()
	serveVisual(w, body)
}

func serveVisual(w http.ResponseWriter, src io.Reader) {
	w.Header().Set("Content-Type", "image/png")
	if _, err := io.Copy(w, src); err != nil {
		log.Debug().Err(err).Msg("Visual response write")
	}
}
