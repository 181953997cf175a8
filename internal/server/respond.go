package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ukaji3/edimap-go/internal/logging"
	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

// ErrorResponse is the JSON body of every error answer.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Details []string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func respondErrorJSON(w http.ResponseWriter, status int, msg, code string, details ...string) {
	respondJSON(w, status, ErrorResponse{Error: msg, Code: code, Details: details})
}

// respondError logs err and answers with a status derived from it.
// Not-found and conflict errors override status.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	code := "INTERNAL"
	switch {
	case errors.Is(err, models.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, models.ErrConflict):
		status, code = http.StatusConflict, "CONFLICT"
	case status == http.StatusBadRequest:
		code = "BAD_REQUEST"
	case status == http.StatusServiceUnavailable:
		code = "UNAVAILABLE"
	}

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
	)

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	respondErrorJSON(w, status, msg, code)
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// intQuery parses a non-negative integer query parameter.
func intQuery(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		return def
	}
	return i
}
