package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ukaji3/edimap-go/pkg/edimap/mapping"
	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

// decodeConfig reads a mapping config body owned by the calling application.
func (s *Server) decodeConfig(w http.ResponseWriter, r *http.Request) (*models.MappingConfig, bool) {
	var cfg models.MappingConfig
	if err := decodeJSON(r, &cfg); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return nil, false
	}
	app := applicationFrom(r.Context())
	cfg.AppID = app.ID
	if cfg.AppName == "" {
		cfg.AppName = app.Name
	}
	if cfg.FormatType == "" {
		cfg.FormatType = models.FormatJSON
	}
	if err := mapping.ValidateConfig(&cfg); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return nil, false
	}
	return &cfg, true
}

// ownConfig loads the config in the URL if the caller owns it.
func (s *Server) ownConfig(w http.ResponseWriter, r *http.Request) (*models.MappingConfig, bool) {
	cfg, err := s.store.GetMappingConfig(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return nil, false
	}
	if cfg.AppID != applicationFrom(r.Context()).ID {
		respondErrorJSON(w, http.StatusForbidden, "you do not have permission to access this mapping config", "FORBIDDEN")
		return nil, false
	}
	return cfg, true
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.decodeConfig(w, r)
	if !ok {
		return
	}
	if err := s.store.CreateMappingConfig(r.Context(), cfg); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, cfg)
}

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.store.ListMappingConfigs(r.Context(), applicationFrom(r.Context()).ID)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if configs == nil {
		configs = []*models.MappingConfig{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"configs": configs, "total": len(configs)})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.ownConfig(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.ownConfig(w, r)
	if !ok {
		return
	}
	cfg, ok := s.decodeConfig(w, r)
	if !ok {
		return
	}
	cfg.ID = existing.ID
	cfg.CreatedAt = existing.CreatedAt
	if err := s.store.UpdateMappingConfig(r.Context(), cfg); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleDeleteConfig(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.ownConfig(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteMappingConfig(r.Context(), cfg.ID); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
