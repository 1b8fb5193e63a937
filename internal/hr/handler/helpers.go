package handler

import (
	"net/http"
	"strconv"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/errors"
)

const (
	defaultPerPage = 50
	maxPerPage     = 500
)

// pagination reads page/per_page query parameters into limit/offset
func pagination(r *http.Request) (limit, offset int) {
	q := r.URL.Query()

	perPage := defaultPerPage
	if v := q.Get("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			perPage = n
		}
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	page := 1
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}

	return perPage, (page - 1) * perPage
}

// intQuery reads an optional positive integer query parameter
func intQuery(r *http.Request, name string, fallback int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func badQueryParam(name string) error {
	return errors.BadRequest("invalid query parameter " + name)
}
