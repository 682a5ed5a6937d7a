package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"inkwell/internal/utils"
	"inkwell/pkg/types"

	"github.com/alexedwards/flow"
)

func (s *Service) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	var input types.CreateDocumentInput
	if err := decoder.Decode(&input, r.PostForm); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" || input.OwnerID == "" {
		s.respondError(w, http.StatusBadRequest, "title and owner_id are required")
		return
	}

	if v := r.PostForm.Get("check_duplicates"); v != "" {
		check := v != "false" && v != "0"
		input.CheckDuplicates = &check
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := s.registry.CreateDocument(ctx, input)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	if result.Duplicate {
		s.respondJSON(w, http.StatusConflict, map[string]string{"result": "duplicate"})
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]string{"documentId": result.DocumentID})
}

func (s *Service) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := types.DocumentFilter{
		OwnerID:      q.Get("owner_id"),
		ProgramID:    q.Get("program_id"),
		DocumentType: q.Get("document_type"),
		Status:       types.DocumentStatus(q.Get("status")),
	}
	if v := q.Get("is_template"); v != "" {
		isTemplate := v == "true" || v == "1"
		filter.IsTemplate = &isTemplate
	}

	docs, err := s.registry.ListDocuments(r.Context(), filter)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, docs)
}

func (s *Service) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.registry.Document(r.Context(), flow.Param(r.Context(), "documentID"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Service) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	documentID := flow.Param(r.Context(), "documentID")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	doc, err := s.registry.Document(ctx, documentID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	removed, err := s.registry.DeleteDocument(ctx, documentID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	if !removed {
		s.respondError(w, http.StatusNotFound, "document not found")
		return
	}

	// Stored file cleanup is best effort; the registry row is already gone.
	if key, ok := s.files.ObjectKey(utils.PtrString(doc.DocumentURL)); ok {
		if err := s.files.DeleteFile(ctx, key); err != nil {
			s.logger.WithError(err).WithField("document_id", documentID).Error("failed to delete stored document file")
		}
	}

	s.respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Service) handleDownloadDocumentFile(w http.ResponseWriter, r *http.Request) {
	doc, err := s.registry.Document(r.Context(), flow.Param(r.Context(), "documentID"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	key, ok := s.files.ObjectKey(utils.PtrString(doc.DocumentURL))
	if !ok {
		s.respondError(w, http.StatusNotFound, "document has no stored file")
		return
	}

	url, err := s.files.PresignGet(r.Context(), key, 15*time.Minute)
	if err != nil {
		s.logger.WithError(err).Error("failed to presign document file url")
		s.respondError(w, http.StatusBadGateway, "unable to generate download link")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Service) handleSetDocumentStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	status := types.DocumentStatus(r.PostForm.Get("status"))
	if status != types.DocumentStatusActive && status != types.DocumentStatusInactive {
		s.respondError(w, http.StatusBadRequest, "status must be active or inactive")
		return
	}

	err := s.registry.SetDocumentStatus(r.Context(), flow.Param(r.Context(), "documentID"), status)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

const maxDocumentFileBytes = 20 << 20 // 20 MiB

func (s *Service) handleUploadDocumentFile(w http.ResponseWriter, r *http.Request) {
	documentID := flow.Param(r.Context(), "documentID")

	if err := r.ParseMultipartForm(maxDocumentFileBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	key := "documents/" + documentID + "/" + header.Filename
	if _, err := s.files.UploadFile(ctx, key, file, contentType); err != nil {
		s.logger.WithError(err).Error("failed to upload document file")
		s.respondError(w, http.StatusBadGateway, "unable to store document file")
		return
	}

	documentURL := s.files.ObjectURL(key)
	if err := s.registry.AttachDocumentFile(ctx, documentID, documentURL); err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]string{"documentUrl": documentURL})
}
