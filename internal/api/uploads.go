package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/apperr"
)

// DefaultMaxUploadBytes bounds a single multipart upload.
const DefaultMaxUploadBytes = 10 << 20

// UploadStore stores and serves uploaded files.
type UploadStore interface {
	StoreUpload(ctx context.Context, filename string, r io.Reader) (string, error)
	OpenUpload(name string) (*os.File, error)
}

// UploadHandler accepts image uploads and serves stored files.
type UploadHandler struct {
	store    UploadStore
	maxBytes int64
}

// NewUploadHandler creates an UploadHandler. maxBytes <= 0 uses the default.
func NewUploadHandler(store UploadStore, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &UploadHandler{store: store, maxBytes: maxBytes}
}

// Upload handles POST /api/upload (multipart/form-data, field "file").
//
//	@Summary		Upload an image
//	@Tags			uploads
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Image file"
//	@Success		201		{object}	UploadResponse
//	@Failure		400		{object}	errResponse
//	@Failure		500		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/upload [post]
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("No file uploaded"))
		return
	}
	defer file.Close()

	ref, err := h.store.StoreUpload(r.Context(), header.Filename, file)
	if err != nil {
		slog.Error("upload failed", slog.String("filename", header.Filename), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("File upload failed"))
		return
	}
	writeJSON(w, http.StatusCreated, UploadResponse{ImagePath: ref})
}

// ServeFile handles GET /uploads/{filename}.
func (h *UploadHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	f, err := h.store.OpenUpload(name)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalid):
			http.Error(w, "invalid filename", http.StatusBadRequest)
		case errors.Is(err, apperr.ErrNotFound):
			http.NotFound(w, r)
		default:
			slog.Error("open upload failed", slog.String("filename", name), slog.String("error", err.Error()))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
