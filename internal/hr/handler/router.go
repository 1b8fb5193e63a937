package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/httputil"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/logger"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Certificates *CertificateHandler
	Employees    *EmployeeHandler
	Catalog      *CatalogHandler
	Reports      *ReportHandler
	Files        *FileHandler
	ImportExport *ImportExportHandler
	Health       *HealthHandler
}

// NewRouter builds the HTTP router with all middleware and routes
func NewRouter(h Handlers, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(httputil.RequestID)
	r.Use(httputil.Actor)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "X-User-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/certificates", h.Certificates.Routes)
		r.Get("/verify/{code}", h.Certificates.VerifyByCode)

		r.Route("/employees", func(r chi.Router) {
			h.Employees.Routes(r)
			r.Route("/{id}/files", h.Files.Routes)
		})

		r.Route("/departments", h.Catalog.DepartmentRoutes)
		r.Route("/training-types", h.Catalog.TrainingTypeRoutes)
		r.Route("/providers", h.Catalog.ProviderRoutes)

		r.Route("/reports", h.Reports.Routes)
		r.Route("/import", h.ImportExport.ImportRoutes)
		r.Route("/export", h.ImportExport.ExportRoutes)
	})

	return r
}
