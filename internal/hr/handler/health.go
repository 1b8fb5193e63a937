package handler

import (
	"net/http"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/database"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/httputil"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/messaging"
)

// HealthHandler reports service and dependency health
type HealthHandler struct {
	db  *database.DB
	rmq *messaging.RabbitMQ
}

// NewHealthHandler creates a health handler. The broker is optional.
func NewHealthHandler(db *database.DB, rmq *messaging.RabbitMQ) *HealthHandler {
	return &HealthHandler{db: db, rmq: rmq}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	deps := map[string]map[string]string{
		"database": h.db.Health(r.Context()),
	}
	if h.rmq != nil {
		deps["rabbitmq"] = h.rmq.Health()
	}

	code := http.StatusOK
	for _, dep := range deps {
		if dep["status"] != "up" {
			code = http.StatusServiceUnavailable
		}
	}

	httputil.JSON(w, code, deps)
}
