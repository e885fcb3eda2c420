package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// PathInt64 parses a positive integer URL parameter. Anything else is
// reported as absent.
func PathInt64(r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
