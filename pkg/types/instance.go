package types

import "time"

type InstanceStatus string

const (
	InstanceStatusReady    InstanceStatus = "ready"
	InstanceStatusSent     InstanceStatus = "sent"
	InstanceStatusViewed   InstanceStatus = "viewed"
	InstanceStatusSigned   InstanceStatus = "signed"
	InstanceStatusDeclined InstanceStatus = "declined"
	InstanceStatusExpired  InstanceStatus = "expired"
)

// Terminal reports whether no further lifecycle transition is defined for the
// status. Reminders are refused for terminal instances.
func (s InstanceStatus) Terminal() bool {
	return s == InstanceStatusSigned || s == InstanceStatusDeclined
}

// DocumentInstance is one recipient-specific delivery of a Document. The
// back-reference to the document is not an ownership relation; instances are
// removed only as a cascade of document deletion.
type DocumentInstance struct {
	ID             string         `db:"id" json:"id"`
	AccessToken    string         `db:"access_token" json:"-"`
	DocumentID     string         `db:"document_id" json:"documentId"`
	RecipientID    string         `db:"recipient_id" json:"recipientId"`
	RecipientType  string         `db:"recipient_type" json:"recipientType"`
	RecipientName  string         `db:"recipient_name" json:"recipientName"`
	RecipientEmail string         `db:"recipient_email" json:"recipientEmail"`
	Status         InstanceStatus `db:"status" json:"status"`

	// Each timestamp is set exactly once, when the matching transition occurs.
	SentAt     *time.Time `db:"sent_at" json:"sentAt"`
	ViewedAt   *time.Time `db:"viewed_at" json:"viewedAt"`
	SignedAt   *time.Time `db:"signed_at" json:"signedAt"`
	DeclinedAt *time.Time `db:"declined_at" json:"declinedAt"`

	DeclinedReason   *string        `db:"declined_reason" json:"declinedReason"`
	ExpirationDate   time.Time      `db:"expiration_date" json:"expirationDate"`
	ReminderCount    int            `db:"reminder_count" json:"reminderCount"`
	LastReminderSent *time.Time     `db:"last_reminder_sent" json:"lastReminderSent"`
	SignatureData    *SignatureData `db:"signature_data" json:"signatureData"` // jsonb
	FormData         map[string]any `db:"form_data" json:"formData"`           // jsonb

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// AccessPath is the deterministic signing-link path for the instance. The
// caller prepends a base URL at send time.
func (i *DocumentInstance) AccessPath() string {
	return "/sign/" + i.ID + "/" + i.AccessToken
}

// Expired reports whether the instance is past its expiration date. This is a
// passive display computation; nothing transitions stored status on its own.
func (i *DocumentInstance) Expired(now time.Time) bool {
	return now.After(i.ExpirationDate)
}

// SignatureData is the normalized payload captured when an instance is signed.
type SignatureData struct {
	SignatureType  string    `json:"signatureType"` // typed | drawn | uploaded
	SignatureImage string    `json:"signatureImage"`
	IPAddress      string    `json:"ipAddress"`
	UserAgent      string    `json:"userAgent"`
	Location       string    `json:"location"`
	SignedAt       time.Time `json:"signedAt"`
}

// StatusUpdate carries the optional context for a viewed/signed/declined
// transition.
type StatusUpdate struct {
	Status         InstanceStatus
	UserAgent      string
	IPAddress      string
	Location       string
	FormData       map[string]any
	SignatureData  *SignatureData
	DeclinedReason string
}
