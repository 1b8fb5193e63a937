package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/repository"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/service"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/httputil"
)

// EmployeeHandler exposes employee management over HTTP
type EmployeeHandler struct {
	employees *service.EmployeeService
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employees *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

// Routes mounts the employee routes
func (h *EmployeeHandler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/compliance", h.Compliance)
}

// Create handles POST /employees
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.EmployeeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	employee, err := h.employees.Create(r.Context(), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Created(w, employee)
}

// Get handles GET /employees/{id}
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	employee, err := h.employees.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, employee)
}

// List handles GET /employees
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter repository.EmployeeFilter
	q := r.URL.Query()

	if v := q.Get("department_id"); v != "" {
		filter.DepartmentID = &v
	}
	if v := q.Get("employment_status"); v != "" {
		filter.EmploymentStatus = &v
	}
	if v := q.Get("search"); v != "" {
		filter.Search = &v
	}
	filter.Limit, filter.Offset = pagination(r)

	employees, err := h.employees.List(r.Context(), filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, employees)
}

// Update handles PUT /employees/{id}
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.EmployeeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	employee, err := h.employees.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, employee)
}

// Delete handles DELETE /employees/{id}
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.employees.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.NoContent(w)
}

// Compliance handles GET /employees/{id}/compliance
func (h *EmployeeHandler) Compliance(w http.ResponseWriter, r *http.Request) {
	view, err := h.employees.Compliance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, view)
}
