// Package registry owns document templates and metadata: creation with
// duplicate detection, listing, and cascading deletion.
package registry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"inkwell/pkg/types"

	"github.com/sirupsen/logrus"
)

type documentStore interface {
	Document(ctx context.Context, documentID string) (*types.Document, error)
	List(ctx context.Context, filter types.DocumentFilter) ([]types.Document, error)
	HasDuplicate(ctx context.Context, ownerID, title, documentURL string) (bool, error)
	Create(ctx context.Context, doc *types.Document) error
	SetStatus(ctx context.Context, documentID string, status types.DocumentStatus) error
	SetDocumentURL(ctx context.Context, documentID, documentURL string) error
	Delete(ctx context.Context, documentID string) (bool, error)
}

type instanceStore interface {
	DeleteByDocument(ctx context.Context, documentID string) (int64, error)
}

type activityStore interface {
	DeleteByDocument(ctx context.Context, documentID string) error
}

type Service struct {
	logger    *logrus.Logger
	documents documentStore
	instances instanceStore
	activity  activityStore
}

func New(logger *logrus.Logger, documents documentStore, instances instanceStore, activity activityStore) *Service {
	return &Service{
		logger:    logger,
		documents: documents,
		instances: instances,
		activity:  activity,
	}
}

// DeriveDocumentID hashes (title, owner, creation time) into a stable
// 12-character lowercase hex identifier.
func DeriveDocumentID(title, ownerID string, createdAt time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", title, ownerID, createdAt.UnixNano())))
	return hex.EncodeToString(sum[:])[:12]
}

// CreateDocument registers a new document. When duplicate checking is on
// (the default) and the owner already has a document with the same
// case-insensitive title or the same URL, no record is created and the result
// reports Duplicate.
func (s *Service) CreateDocument(ctx context.Context, input types.CreateDocumentInput) (types.CreateDocumentResult, error) {
	if input.Title == "" || input.OwnerID == "" {
		return types.CreateDocumentResult{}, fmt.Errorf("title and owner_id are required")
	}

	checkDuplicates := true
	if input.CheckDuplicates != nil {
		checkDuplicates = *input.CheckDuplicates
	}

	if checkDuplicates {
		dup, err := s.documents.HasDuplicate(ctx, input.OwnerID, input.Title, input.DocumentURL)
		if err != nil {
			return types.CreateDocumentResult{}, fmt.Errorf("duplicate check: %w", err)
		}
		if dup {
			return types.CreateDocumentResult{Duplicate: true}, nil
		}
	}

	now := time.Now()
	doc := &types.Document{
		ID:                 DeriveDocumentID(input.Title, input.OwnerID, now),
		Title:              input.Title,
		DocumentType:       input.DocumentType,
		OwnerID:            input.OwnerID,
		OwnerType:          input.OwnerType,
		Status:             types.DocumentStatusActive,
		IsTemplate:         input.IsTemplate,
		RequiredSignatures: input.RequiredSignatures,
		Metadata:           input.Metadata,
		ExpirationDate:     input.ExpirationDate,
	}
	if input.Description != "" {
		doc.Description = &input.Description
	}
	if input.ProgramID != "" {
		doc.ProgramID = &input.ProgramID
	}
	if input.DocumentURL != "" {
		doc.DocumentURL = &input.DocumentURL
	}

	if err := s.documents.Create(ctx, doc); err != nil {
		return types.CreateDocumentResult{}, fmt.Errorf("create document: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"document_id": doc.ID,
		"owner_id":    doc.OwnerID,
	}).Info("document created")

	return types.CreateDocumentResult{DocumentID: doc.ID}, nil
}

func (s *Service) Document(ctx context.Context, documentID string) (*types.Document, error) {
	return s.documents.Document(ctx, documentID)
}

// ListDocuments is a pure filter-and-return; all matches come back.
func (s *Service) ListDocuments(ctx context.Context, filter types.DocumentFilter) ([]types.Document, error) {
	return s.documents.List(ctx, filter)
}

// SetDocumentStatus flips a document between active and inactive, the only
// structural mutation allowed after creation.
func (s *Service) SetDocumentStatus(ctx context.Context, documentID string, status types.DocumentStatus) error {
	if _, err := s.documents.Document(ctx, documentID); err != nil {
		return err
	}
	return s.documents.SetStatus(ctx, documentID, status)
}

// AttachDocumentFile records the storage URL of an uploaded document file.
func (s *Service) AttachDocumentFile(ctx context.Context, documentID, documentURL string) error {
	if _, err := s.documents.Document(ctx, documentID); err != nil {
		return err
	}
	return s.documents.SetDocumentURL(ctx, documentID, documentURL)
}

// DeleteDocument cascades: activity entries first, then instances, then the
// document row. Reports whether the document row itself was removed; the
// instance count is logged, not returned.
func (s *Service) DeleteDocument(ctx context.Context, documentID string) (bool, error) {
	if err := s.activity.DeleteByDocument(ctx, documentID); err != nil {
		return false, fmt.Errorf("delete document activity: %w", err)
	}

	deleted, err := s.instances.DeleteByDocument(ctx, documentID)
	if err != nil {
		return false, fmt.Errorf("delete document instances: %w", err)
	}

	removed, err := s.documents.Delete(ctx, documentID)
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"document_id":       documentID,
		"instances_deleted": deleted,
		"document_removed":  removed,
	}).Info("document deleted")

	return removed, nil
}
