package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/service"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/httputil"
)

// CatalogHandler exposes departments, training types and providers
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// DepartmentRoutes mounts the department routes
func (h *CatalogHandler) DepartmentRoutes(r chi.Router) {
	r.Post("/", h.CreateDepartment)
	r.Get("/", h.ListDepartments)
	r.Get("/{id}", h.GetDepartment)
	r.Put("/{id}", h.UpdateDepartment)
	r.Delete("/{id}", h.DeleteDepartment)
}

// TrainingTypeRoutes mounts the training type routes
func (h *CatalogHandler) TrainingTypeRoutes(r chi.Router) {
	r.Post("/", h.CreateTrainingType)
	r.Get("/", h.ListTrainingTypes)
	r.Get("/{id}", h.GetTrainingType)
	r.Put("/{id}", h.UpdateTrainingType)
	r.Delete("/{id}", h.DeleteTrainingType)
}

// ProviderRoutes mounts the provider routes
func (h *CatalogHandler) ProviderRoutes(r chi.Router) {
	r.Post("/", h.CreateProvider)
	r.Get("/", h.ListProviders)
	r.Get("/{id}", h.GetProvider)
	r.Put("/{id}", h.UpdateProvider)
	r.Delete("/{id}", h.DeleteProvider)
}

// CreateDepartment handles POST /departments
func (h *CatalogHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req service.DepartmentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	dept, err := h.catalog.CreateDepartment(r.Context(), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Created(w, dept)
}

// GetDepartment handles GET /departments/{id}
func (h *CatalogHandler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	dept, err := h.catalog.GetDepartment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, dept)
}

// ListDepartments handles GET /departments
func (h *CatalogHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.catalog.ListDepartments(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, departments)
}

// UpdateDepartment handles PUT /departments/{id}
func (h *CatalogHandler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	var req service.DepartmentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	dept, err := h.catalog.UpdateDepartment(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, dept)
}

// DeleteDepartment handles DELETE /departments/{id}
func (h *CatalogHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteDepartment(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.NoContent(w)
}

// CreateTrainingType handles POST /training-types
func (h *CatalogHandler) CreateTrainingType(w http.ResponseWriter, r *http.Request) {
	var req service.TrainingTypeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	t, err := h.catalog.CreateTrainingType(r.Context(), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Created(w, t)
}

// GetTrainingType handles GET /training-types/{id}
func (h *CatalogHandler) GetTrainingType(w http.ResponseWriter, r *http.Request) {
	t, err := h.catalog.GetTrainingType(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, t)
}

// ListTrainingTypes handles GET /training-types
func (h *CatalogHandler) ListTrainingTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.catalog.ListTrainingTypes(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, types)
}

// UpdateTrainingType handles PUT /training-types/{id}
func (h *CatalogHandler) UpdateTrainingType(w http.ResponseWriter, r *http.Request) {
	var req service.TrainingTypeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	t, err := h.catalog.UpdateTrainingType(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, t)
}

// DeleteTrainingType handles DELETE /training-types/{id}
func (h *CatalogHandler) DeleteTrainingType(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteTrainingType(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.NoContent(w)
}

// CreateProvider handles POST /providers
func (h *CatalogHandler) CreateProvider(w http.ResponseWriter, r *http.Request) {
	var req service.ProviderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	p, err := h.catalog.CreateProvider(r.Context(), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Created(w, p)
}

// GetProvider handles GET /providers/{id}
func (h *CatalogHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetProvider(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, p)
}

// ListProviders handles GET /providers
func (h *CatalogHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := h.catalog.ListProviders(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, providers)
}

// UpdateProvider handles PUT /providers/{id}
func (h *CatalogHandler) UpdateProvider(w http.ResponseWriter, r *http.Request) {
	var req service.ProviderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	p, err := h.catalog.UpdateProvider(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, p)
}

// DeleteProvider handles DELETE /providers/{id}
func (h *CatalogHandler) DeleteProvider(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProvider(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.NoContent(w)
}
