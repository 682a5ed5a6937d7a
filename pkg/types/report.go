package types

import "time"

// StatusCounts holds per-status instance counts for one document. Ready
// instances are excluded from this aggregation; all reported buckets are
// always present, zero-filled when absent.
type StatusCounts map[InstanceStatus]int

// ReportedStatuses is the fixed bucket order for status-count aggregations.
var ReportedStatuses = []InstanceStatus{
	InstanceStatusSent,
	InstanceStatusViewed,
	InstanceStatusSigned,
	InstanceStatusDeclined,
	InstanceStatusExpired,
}

// DocumentCount pairs a document with an instance tally, used by the
// most-viewed / most-declined analytics rankings.
type DocumentCount struct {
	DocumentID string `json:"documentId"`
	Title      string `json:"title"`
	Count      int    `json:"count"`
}

// Analytics is the system-wide aggregate over all documents and instances.
type Analytics struct {
	TotalDocuments     int                    `json:"totalDocuments"`
	TotalInstances     int                    `json:"totalInstances"`
	StatusCounts       map[InstanceStatus]int `json:"statusCounts"`
	CompletionRate     float64                `json:"completionRate"` // signed / total * 100, 0 when empty
	MostViewed         []DocumentCount        `json:"mostViewed"`     // top 5 by view count
	MostDeclined       []DocumentCount        `json:"mostDeclined"`   // top 5 by decline count
	AvgTimeToSignHours float64                `json:"avgTimeToSignHours"`
	SignedLast7Days    int                    `json:"signedLast7Days"`
}

// StatusReportRow joins an instance with its parent document for the
// time-windowed status report.
type StatusReportRow struct {
	Instance        DocumentInstance `json:"instance"`
	Document        Document         `json:"document"`
	TimeToSignHours *float64         `json:"timeToSignHours"`
	TimeToViewHours *float64         `json:"timeToViewHours"`
}

// RecipientMatch is one result of a recipient search, with the standard date
// fields pre-formatted for display.
type RecipientMatch struct {
	Instance DocumentInstance `json:"instance"`
	Document Document         `json:"document"`

	SentDate     string `json:"sentDate"`
	ViewedDate   string `json:"viewedDate"`
	SignedDate   string `json:"signedDate"`
	DeclinedDate string `json:"declinedDate"`
}

// DisplayDate formats an optional timestamp for report output.
func DisplayDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("Jan 2, 2006 3:04 PM")
}
