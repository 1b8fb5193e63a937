package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/service"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/errors"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/httputil"
)

// maxUploadMemory bounds the in-memory part of multipart parsing
const maxUploadMemory = 32 << 20

// FileHandler exposes versioned certificate file attachments over HTTP
type FileHandler struct {
	files *service.FileService
}

// NewFileHandler creates a new file handler
func NewFileHandler(files *service.FileService) *FileHandler {
	return &FileHandler{files: files}
}

// Routes mounts the file routes under /employees/{id}/files
func (h *FileHandler) Routes(r chi.Router) {
	r.Post("/{typeID}", h.Upload)
	r.Get("/{typeID}", h.Download)
	r.Get("/{typeID}/versions", h.ListVersions)
	r.Delete("/{typeID}", h.Delete)
}

// Upload handles POST /employees/{id}/files/{typeID}. Expects a
// multipart form with a "file" part.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		httputil.Error(w, errors.BadRequest("expected a multipart form upload"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.Error(w, errors.BadRequest("missing file part"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.Error(w, errors.Internal("failed to read uploaded file"))
		return
	}

	fv, err := h.files.Upload(r.Context(),
		chi.URLParam(r, "id"),
		chi.URLParam(r, "typeID"),
		header.Filename,
		header.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, fv)
}

// Download handles GET /employees/{id}/files/{typeID}?version=N.
// Without a version parameter the latest version is served.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	version := intQuery(r, "version", 0)

	fv, data, err := h.files.Download(r.Context(),
		chi.URLParam(r, "id"),
		chi.URLParam(r, "typeID"),
		version,
	)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", fv.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fv.OriginalName))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", fv.SizeBytes))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ListVersions handles GET /employees/{id}/files/{typeID}/versions
func (h *FileHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.files.ListVersions(r.Context(),
		chi.URLParam(r, "id"),
		chi.URLParam(r, "typeID"),
	)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, versions)
}

// Delete handles DELETE /employees/{id}/files/{typeID} and removes
// every stored version.
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.files.Delete(r.Context(),
		chi.URLParam(r, "id"),
		chi.URLParam(r, "typeID"),
	)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.NoContent(w)
}
