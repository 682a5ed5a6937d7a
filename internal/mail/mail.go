// Package mail delivers plaintext notification email for signing workflows.
// Delivery is best effort: callers persist state first and treat a send
// failure as telemetry, never as a reason to roll back.
package mail

import "context"

type Message struct {
	FromName    string
	FromAddress string
	ToName      string
	ToAddress   string
	Subject     string
	Body        string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
