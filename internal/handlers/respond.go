package handlers

import (
	"encoding/json"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"project-editor/backend/internal/filetree"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func requestLog(r *http.Request, err error) *logrus.Entry {
	entry := logrus.WithFields(logrus.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"request_id": chimiddleware.GetReqID(r.Context()),
	})
	if err != nil {
		entry = entry.WithError(err)
	}
	return entry
}

func logError(r *http.Request, err error, msg string) {
	requestLog(r, err).Error(msg)
}

// statusFor maps a service error onto its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, filetree.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, filetree.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError logs err and writes the matching status. Internal
// failures get the generic fallback message only.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logError(r, err, fallback)
		respondError(w, status, fallback)
		return
	}
	requestLog(r, err).Warn(fallback)

	var svcErr *filetree.Error
	if errors.As(err, &svcErr) {
		respondError(w, status, svcErr.Msg)
		return
	}
	respondError(w, status, http.StatusText(status))
}
