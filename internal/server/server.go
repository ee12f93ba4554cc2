package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/phonecompare/internal/config"
	"github.com/at-ishikawa/phonecompare/internal/phone"
	"github.com/at-ishikawa/phonecompare/internal/render"
	"github.com/at-ishikawa/phonecompare/internal/selection"
)

// NewRouter routes the health check, the comparison page and the catalog service.
func NewRouter(h *CatalogHandler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(allowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/compare", h.ComparePage)

	path, handler := NewCatalogServiceHandler(h)
	r.Mount(path, handler)
	return r
}

// New returns an HTTP server that accepts HTTP/2 without TLS for Connect clients.
func New(cfg config.ServerConfig, h *CatalogHandler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h2c.NewHandler(NewRouter(h, cfg.CORS.AllowedOrigins), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// ComparePage renders the phones named by the id query parameters as a standalone HTML table.
// It leaves the session selection untouched.
func (h *CatalogHandler) ComparePage(w http.ResponseWriter, r *http.Request) {
	var ids []string
	for _, v := range r.URL.Query()["id"] {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" && !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		http.Error(w, "at least one id is required", http.StatusBadRequest)
		return
	}
	if len(ids) > selection.MaxSize {
		http.Error(w, selection.ErrCapacityExceeded.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	records := make([]phone.Record, 0, len(ids))
	for _, id := range ids {
		record, ok := h.app.Catalog().Find(id)
		if !ok {
			h.mu.Unlock()
			http.Error(w, fmt.Sprintf("phone %s was not found", id), http.StatusNotFound)
			return
		}
		records = append(records, record)
	}
	h.mu.Unlock()

	page, err := render.HTMLPage(fmt.Sprintf("Comparing %d phones", len(records)), render.Compare(records).Markdown())
	if err != nil {
		slog.Error("failed to render the comparison page", "error", err)
		http.Error(w, "failed to render the comparison", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (slices.Contains(allowedOrigins, origin) || slices.Contains(allowedOrigins, "*")) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version")
				w.Header().Set("Access-Control-Max-Age", "3600")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
