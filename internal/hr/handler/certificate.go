package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/repository"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/service"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/httputil"
)

// CertificateHandler exposes the certificate lifecycle over HTTP
type CertificateHandler struct {
	certs *service.CertificateService
}

// NewCertificateHandler creates a new certificate handler
func NewCertificateHandler(certs *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{certs: certs}
}

// Routes mounts the certificate routes
func (h *CertificateHandler) Routes(r chi.Router) {
	r.Post("/", h.Issue)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/chain", h.Chain)
	r.Post("/{id}/verify", h.Verify)
	r.Post("/{id}/revoke", h.Revoke)
	r.Post("/{id}/suspend", h.Suspend)
	r.Post("/{id}/reactivate", h.Reactivate)
	r.Post("/{id}/renew", h.Renew)
}

// Issue handles POST /certificates
func (h *CertificateHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req service.IssueRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	cert, err := h.certs.Issue(r.Context(), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, cert)
}

// certificateResponse pairs the stored record with its derived status
type certificateResponse struct {
	*domain.Certificate
	ComplianceStatus domain.ComplianceStatus `json:"compliance_status"`
}

// Get handles GET /certificates/{id}
func (h *CertificateHandler) Get(w http.ResponseWriter, r *http.Request) {
	cert, status, err := h.certs.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, certificateResponse{Certificate: cert, ComplianceStatus: status})
}

// List handles GET /certificates
func (h *CertificateHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := certificateFilterFromQuery(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	certs, err := h.certs.List(r.Context(), filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, certs)
}

// Update handles PUT /certificates/{id}
func (h *CertificateHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	cert, err := h.certs.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, cert)
}

// Delete handles DELETE /certificates/{id}
func (h *CertificateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.certs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.NoContent(w)
}

// Chain handles GET /certificates/{id}/chain
func (h *CertificateHandler) Chain(w http.ResponseWriter, r *http.Request) {
	chain, err := h.certs.Chain(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, chain)
}

// Verify handles POST /certificates/{id}/verify
func (h *CertificateHandler) Verify(w http.ResponseWriter, r *http.Request) {
	cert, err := h.certs.Verify(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, cert)
}

// Revoke handles POST /certificates/{id}/revoke
func (h *CertificateHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	var req service.RevokeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	cert, err := h.certs.Revoke(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, cert)
}

// Suspend handles POST /certificates/{id}/suspend
func (h *CertificateHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	var req service.SuspendRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	cert, err := h.certs.Suspend(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, cert)
}

// Reactivate handles POST /certificates/{id}/reactivate
func (h *CertificateHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	cert, err := h.certs.Reactivate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, cert)
}

// Renew handles POST /certificates/{id}/renew
func (h *CertificateHandler) Renew(w http.ResponseWriter, r *http.Request) {
	var req service.RenewRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	cert, err := h.certs.Renew(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Created(w, cert)
}

// VerifyByCode handles GET /verify/{code}, the public lookup
func (h *CertificateHandler) VerifyByCode(w http.ResponseWriter, r *http.Request) {
	result, err := h.certs.VerifyByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, result)
}

func certificateFilterFromQuery(r *http.Request) (repository.CertificateFilter, error) {
	var filter repository.CertificateFilter
	q := r.URL.Query()

	strParam := func(name string) *string {
		if v := q.Get(name); v != "" {
			return &v
		}
		return nil
	}

	filter.EmployeeID = strParam("employee_id")
	filter.TrainingTypeID = strParam("training_type_id")
	filter.DepartmentID = strParam("department_id")
	filter.ProviderID = strParam("provider_id")
	filter.Category = strParam("category")

	if v := q.Get("status"); v != "" {
		status := domain.LifecycleStatus(v)
		filter.Status = &status
	}
	if v := q.Get("expiring_within_days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return filter, badQueryParam("expiring_within_days")
		}
		filter.ExpiringWithinDays = &days
	}
	if v := q.Get("issued_from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, badQueryParam("issued_from")
		}
		filter.IssuedFrom = &t
	}
	if v := q.Get("issued_to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, badQueryParam("issued_to")
		}
		filter.IssuedTo = &t
	}

	filter.Limit, filter.Offset = pagination(r)
	return filter, nil
}
