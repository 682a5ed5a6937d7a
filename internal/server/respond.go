package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"inkwell/pkg/types"
)

func (s *Service) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if payload == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps sentinel errors onto status codes. Anything
// unrecognized is a 500 with a generic message.
func (s *Service) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrDocumentNotFound),
		errors.Is(err, types.ErrInstanceNotFound),
		errors.Is(err, types.ErrProgramNotFound),
		errors.Is(err, types.ErrStudentNotFound),
		errors.Is(err, types.ErrUserNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, types.ErrInstanceTerminal):
		s.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, types.ErrInvalidStatus):
		s.respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.WithError(err).Error("request failed")
		s.respondError(w, http.StatusInternalServerError, "internal error")
	}
}
