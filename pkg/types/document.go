package types

import "time"

type DocumentStatus string

const (
	DocumentStatusActive   DocumentStatus = "active"
	DocumentStatusInactive DocumentStatus = "inactive"
)

type OwnerType string

const (
	OwnerTypeAdmin      OwnerType = "admin"
	OwnerTypeInstructor OwnerType = "instructor"
)

// Document is a registry record describing a thing recipients must review or
// sign. Structurally immutable after creation apart from Status/UpdatedAt.
type Document struct {
	ID                 string         `db:"id" json:"id"`
	Title              string         `db:"title" json:"title"`
	Description        *string        `db:"description" json:"description"`
	DocumentType       string         `db:"document_type" json:"documentType"`
	OwnerID            string         `db:"owner_id" json:"ownerId"`
	OwnerType          OwnerType      `db:"owner_type" json:"ownerType"`
	ProgramID          *string        `db:"program_id" json:"programId"`
	DocumentURL        *string        `db:"document_url" json:"documentUrl"`
	Status             DocumentStatus `db:"status" json:"status"`
	IsTemplate         bool           `db:"is_template" json:"isTemplate"`
	RequiredSignatures []string       `db:"required_signatures" json:"requiredSignatures"` // jsonb array of role tags
	Metadata           map[string]any `db:"metadata" json:"metadata"`                      // jsonb
	ExpirationDate     *time.Time     `db:"expiration_date" json:"expirationDate"`
	CreatedAt          time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updatedAt"`
}

type DocumentFilter struct {
	OwnerID      string
	ProgramID    string
	DocumentType string
	Status       DocumentStatus
	IsTemplate   *bool
}

type CreateDocumentInput struct {
	Title              string         `form:"title"`
	Description        string         `form:"description"`
	DocumentType       string         `form:"document_type"`
	OwnerID            string         `form:"owner_id"`
	OwnerType          OwnerType      `form:"owner_type"`
	ProgramID          string         `form:"program_id"`
	DocumentURL        string         `form:"document_url"`
	ExpirationDate     *time.Time     `form:"expiration_date"`
	IsTemplate         bool           `form:"is_template"`
	RequiredSignatures []string       `form:"required_signatures"`
	Metadata           map[string]any `form:"-"`

	// CheckDuplicates defaults to true at the service layer; explicit opt-out
	// for bulk imports that have already deduplicated.
	CheckDuplicates *bool `form:"-"`
}

// CreateDocumentResult distinguishes a fresh registry record from a rejected
// duplicate. Failures travel on the error return, never in-band.
type CreateDocumentResult struct {
	DocumentID string
	Duplicate  bool
}
