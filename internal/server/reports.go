package server

import (
	"net/http"
	"strconv"

	"inkwell/internal/tracker"
)

func (s *Service) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := s.tracker.Analytics(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, analytics)
}

func (s *Service) handleStatusReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	days := 30
	if v := q.Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			s.respondError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	rows, err := s.tracker.StatusReport(r.Context(), q.Get("program_id"), days)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	if q.Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="status-report.csv"`)
		if err := tracker.WriteStatusReportCSV(w, rows); err != nil {
			s.logger.WithError(err).Error("failed to write csv report")
		}
		return
	}

	s.respondJSON(w, http.StatusOK, rows)
}

func (s *Service) handleSearchRecipients(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		s.respondError(w, http.StatusBadRequest, "q is required")
		return
	}

	matches, err := s.tracker.SearchByRecipient(r.Context(), term)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, matches)
}
