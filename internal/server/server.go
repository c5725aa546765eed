// Package server exposes territory profiles over a JSON HTTP API.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/procolombia/territory-profile/internal/metrics"
	"github.com/procolombia/territory-profile/internal/report"
	"github.com/procolombia/territory-profile/internal/territory"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Options configures the HTTP surface.
type Options struct {
	// AllowedOrigins lists the CORS origins; empty allows any.
	AllowedOrigins []string
	// ReportRate caps report generation per second across all clients;
	// zero or less disables the cap.
	ReportRate  float64
	ReportBurst int
}

// Server serves profiles built from a loaded territory context.
type Server struct {
	data    *territory.Context
	catalog *metrics.Catalog
	origins []string
	reports *rate.Limiter
}

// New creates a Server.
func New(data *territory.Context, catalog *metrics.Catalog, opts Options) *Server {
	s := &Server{data: data, catalog: catalog, origins: opts.AllowedOrigins}
	if len(s.origins) == 0 {
		s.origins = []string{"*"}
	}
	if opts.ReportRate > 0 {
		burst := max(opts.ReportBurst, 1)
		s.reports = rate.NewLimiter(rate.Limit(opts.ReportRate), burst)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":   "ok",
			"snapshot": s.data.Snapshot(),
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/regions", s.handleRegions)
		r.Get("/regions/{region}/territories", s.handleTerritories)
		r.Get("/profile", s.handleProfile)
		r.Get("/report", s.handleReport)
	})
	return r
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"regions": s.data.Regions(),
		"default": s.data.DefaultRegion(),
	})
}

func (s *Server) handleTerritories(w http.ResponseWriter, r *http.Request) {
	region, err := url.PathUnescape(chi.URLParam(r, "region"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed region")
		return
	}
	names := s.data.Territories(region)
	if names == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown region %q", region))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"territories": names})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.resolve(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, metrics.Build(sel, s.catalog))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if s.reports != nil && !s.reports.Allow() {
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusTooManyRequests, "too many report requests")
		return
	}

	sel, ok := s.resolve(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, metrics.Build(sel, s.catalog)); err != nil {
		zap.L().Error("server: render report", zap.String("code", sel.Code), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "report could not be generated")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="perfil-%s.xlsx"`, reportName(sel)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// resolve reads the selection from the query string and writes the error
// response itself when it cannot.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request) (*territory.Selection, bool) {
	region := r.URL.Query().Get("region")
	name := r.URL.Query().Get("territory")
	if region == "" || name == "" {
		writeError(w, http.StatusBadRequest, "region and territory are required")
		return nil, false
	}

	sel, err := s.data.Resolve(region, name)
	if err != nil {
		var ese *territory.EmptySelectionError
		if errors.As(err, &ese) {
			writeError(w, http.StatusNotFound, err.Error())
			return nil, false
		}
		zap.L().Error("server: resolve selection", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "selection failed")
		return nil, false
	}
	return sel, true
}

func reportName(sel *territory.Selection) string {
	if sel.Code != "" {
		return sel.Code
	}
	return "sin-codigo"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
