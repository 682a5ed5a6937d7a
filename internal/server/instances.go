package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"inkwell/internal/tracker"

	"github.com/alexedwards/flow"
)

func (s *Service) handleCreateInstance(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	var input tracker.CreateInstanceInput
	if err := decoder.Decode(&input, r.PostForm); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid form payload")
		return
	}
	input.DocumentID = flow.Param(r.Context(), "documentID")

	input.RecipientEmail = strings.TrimSpace(input.RecipientEmail)
	if input.RecipientEmail == "" {
		s.respondError(w, http.StatusBadRequest, "recipient_email is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Advisory duplicate warning only; creation always proceeds.
	exists, err := s.tracker.InstanceExists(ctx, input.DocumentID, input.RecipientEmail)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	instanceID, err := s.tracker.CreateInstance(ctx, input)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{
		"instanceId":        instanceID,
		"recipientHasOther": exists,
	})
}

func (s *Service) handleListInstances(w http.ResponseWriter, r *http.Request) {
	instances, err := s.tracker.InstancesByDocument(r.Context(), flow.Param(r.Context(), "documentID"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, instances)
}

func (s *Service) handleSendDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	var opts tracker.SendOptions
	if err := decoder.Decode(&opts, r.PostForm); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := s.tracker.SendDocument(ctx, flow.Param(r.Context(), "instanceID"), opts); err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]bool{"sent": true})
}

func (s *Service) handleSendReminder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err := s.tracker.SendReminder(ctx, flow.Param(r.Context(), "instanceID"), r.PostForm.Get("base_url"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]bool{"reminded": true})
}

func (s *Service) handleInstanceActivity(w http.ResponseWriter, r *http.Request) {
	instanceID := flow.Param(r.Context(), "instanceID")

	if _, err := s.tracker.Instance(r.Context(), instanceID); err != nil {
		s.respondServiceError(w, err)
		return
	}

	entries, err := s.tracker.ActivityLog(r.Context(), instanceID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, entries)
}

func (s *Service) handleStatusCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.tracker.StatusCounts(r.Context(), flow.Param(r.Context(), "documentID"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, counts)
}
