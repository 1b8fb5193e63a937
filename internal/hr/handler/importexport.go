package handler

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/service"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/errors"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/httputil"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ImportExportHandler exposes spreadsheet import and export over HTTP
type ImportExportHandler struct {
	importExport *service.ImportExportService
}

// NewImportExportHandler creates a new import/export handler
func NewImportExportHandler(importExport *service.ImportExportService) *ImportExportHandler {
	return &ImportExportHandler{importExport: importExport}
}

// ImportRoutes mounts the import routes
func (h *ImportExportHandler) ImportRoutes(r chi.Router) {
	r.Post("/certificates", h.ImportCertificates)
	r.Post("/employees", h.ImportEmployees)
}

// ExportRoutes mounts the export routes
func (h *ImportExportHandler) ExportRoutes(r chi.Router) {
	r.Get("/certificates", h.ExportCertificates)
	r.Get("/employees", h.ExportEmployees)
}

// ImportCertificates handles POST /import/certificates
func (h *ImportExportHandler) ImportCertificates(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	result, err := h.importExport.ImportCertificates(r.Context(), data)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, result)
}

// ImportEmployees handles POST /import/employees
func (h *ImportExportHandler) ImportEmployees(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	result, err := h.importExport.ImportEmployees(r.Context(), data)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, result)
}

// ExportCertificates handles GET /export/certificates, honoring the same
// query filters as the certificate listing.
func (h *ImportExportHandler) ExportCertificates(w http.ResponseWriter, r *http.Request) {
	filter, err := certificateFilterFromQuery(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	// Exports are unpaginated
	filter.Limit = 0
	filter.Offset = 0

	data, err := h.importExport.ExportCertificates(r.Context(), filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	serveXLSX(w, "certificates", data)
}

// ExportEmployees handles GET /export/employees
func (h *ImportExportHandler) ExportEmployees(w http.ResponseWriter, r *http.Request) {
	data, err := h.importExport.ExportEmployees(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	serveXLSX(w, "employees", data)
}

func readUpload(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, errors.BadRequest("expected a multipart form upload")
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, errors.BadRequest("missing file part")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Internal("failed to read uploaded file")
	}
	return data, nil
}

func serveXLSX(w http.ResponseWriter, name string, data []byte) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
