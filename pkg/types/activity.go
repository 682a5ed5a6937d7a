package types

import "time"

// Activity log actions. Every lifecycle transition appends exactly one entry.
const (
	ActivityCreated      = "created"
	ActivitySent         = "sent"
	ActivityReminderSent = "reminder_sent"
	ActivityViewed       = "viewed"
	ActivitySigned       = "signed"
	ActivityDeclined     = "declined"
	ActivityExpired      = "expired"
)

// ActivityEntry is one record in an instance's append-only audit trail.
// Entries are never updated, pruned, or reordered.
type ActivityEntry struct {
	ID         int64          `db:"id" json:"id"`
	InstanceID string         `db:"instance_id" json:"instanceId"`
	Action     string         `db:"action" json:"action"`
	ActorID    string         `db:"actor_id" json:"actorId"`
	ActorType  string         `db:"actor_type" json:"actorType"`
	Details    map[string]any `db:"details" json:"details"` // jsonb
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
}
