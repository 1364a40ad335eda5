// internal/app/features/exports/handler.go
package exports

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/orkestra-ventures/orkestra/internal/app/system/auditlog"
	"github.com/orkestra-ventures/orkestra/internal/app/system/auth"
	"github.com/orkestra-ventures/orkestra/internal/app/system/export"
	"github.com/orkestra-ventures/orkestra/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Registry Registry
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Registry: NewRegistry(db),
		Audit:    audit,
		Log:      logger,
	}
}

// ServeExport handles GET /admin/export/{file}, where file is
// "<resource>.csv" or "<resource>.xlsx".
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	name, format, ok := strings.Cut(file, ".")
	if !ok || (format != export.FormatCSV && format != export.FormatXLSX) {
		http.Error(w, "unsupported export format", http.StatusBadRequest)
		return
	}
	fetch, ok := h.Registry[name]
	if !ok {
		http.Error(w, "unknown resource", http.StatusNotFound)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, name+" export")
	defer cancel()

	table, err := fetch(ctx)
	if err != nil {
		h.Log.Error("export fetch failed", zap.String("resource", name), zap.Error(err))
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	// Render fully before writing headers so a failure can still be a 500.
	var buf bytes.Buffer
	if err := export.Write(&buf, format, table); err != nil {
		h.Log.Error("export render failed", zap.String("resource", name), zap.Error(err))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("%s_%s.%s", name, time.Now().UTC().Format("20060102"), format)
	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.Log.Warn("export write failed", zap.String("resource", name), zap.Error(err))
		return
	}

	var actor int64
	if u, ok := auth.CurrentUser(r); ok {
		actor = u.ID
	}
	h.Audit.RecordsExported(ctx, r, actor, name, format, len(table.Rows))
}
