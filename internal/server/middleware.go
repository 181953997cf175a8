package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ukaji3/edimap-go/internal/logging"
	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

type appKey struct{}

// applicationFrom returns the authenticated application of a request.
func applicationFrom(ctx context.Context) *models.Application {
	app, _ := ctx.Value(appKey{}).(*models.Application)
	return app
}

// apiKeyAuth resolves the API key header to an active application.
// A missing key is 401, an unknown or inactive key is 403.
func (s *Server) apiKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(s.cfg.APIKeyHeader)
		if key == "" {
			logging.FromContext(r.Context()).Warn("auth: missing API key", "path", r.URL.Path, "method", r.Method)
			respondErrorJSON(w, http.StatusUnauthorized, "missing API key", "AUTH_MISSING_KEY")
			return
		}

		app, err := s.store.FindApplicationByAPIKey(r.Context(), key)
		if errors.Is(err, models.ErrNotFound) {
			logging.FromContext(r.Context()).Warn("auth: invalid API key", "path", r.URL.Path, "method", r.Method)
			respondErrorJSON(w, http.StatusForbidden, "invalid API key", "AUTH_INVALID_KEY")
			return
		}
		if err != nil {
			s.respondError(w, r, err, http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), appKey{}, app)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogger logs one line per request with the server logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithLogger(r.Context(), s.log)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r.WithContext(ctx))

		logging.FromContext(ctx).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}
