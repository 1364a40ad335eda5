// internal/app/features/exports/routes.go
package exports

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes serves downloads behind requireAdmin.
func Routes(h *Handler, requireAdmin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(requireAdmin)
	r.Get("/{file}", h.ServeExport)
	return r
}
