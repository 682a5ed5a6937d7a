package mail

import (
	"fmt"
	"strings"
	"time"
)

// SigningInviteParams carries everything needed to compose the initial
// signing email for an instance.
type SigningInviteParams struct {
	RecipientName  string
	RecipientEmail string
	DocumentTitle  string
	SigningURL     string
	ExpirationDate time.Time

	// Optional overrides supplied by the administrator at send time.
	Subject string
	Message string
}

// ComposeSigningInvite renders the invitation message sent when a document
// instance is first dispatched.
func ComposeSigningInvite(fromName, fromAddress string, p SigningInviteParams) Message {
	subject := p.Subject
	if subject == "" {
		subject = fmt.Sprintf("Signature requested: %s", p.DocumentTitle)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", displayName(p.RecipientName))
	if p.Message != "" {
		fmt.Fprintf(&b, "%s\n\n", p.Message)
	} else {
		fmt.Fprintf(&b, "You have been asked to review and sign the document %q.\n\n", p.DocumentTitle)
	}
	fmt.Fprintf(&b, "Review and sign here:\n%s\n\n", p.SigningURL)
	fmt.Fprintf(&b, "This link expires on %s.\n\n", p.ExpirationDate.Format("January 2, 2006"))
	fmt.Fprintf(&b, "If you were not expecting this request, you can ignore this email.\n")

	return Message{
		FromName:    fromName,
		FromAddress: fromAddress,
		ToName:      p.RecipientName,
		ToAddress:   p.RecipientEmail,
		Subject:     subject,
		Body:        b.String(),
	}
}

// ReminderParams carries everything needed to compose a reminder email.
type ReminderParams struct {
	RecipientName  string
	RecipientEmail string
	DocumentTitle  string
	SigningURL     string
	ExpirationDate time.Time
	ReminderCount  int
}

// ComposeReminder renders the nudge message sent by send-reminder.
func ComposeReminder(fromName, fromAddress string, p ReminderParams) Message {
	subject := fmt.Sprintf("Reminder: %s is waiting for your signature", p.DocumentTitle)

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", displayName(p.RecipientName))
	fmt.Fprintf(&b, "This is a reminder that the document %q is still waiting for your signature.\n\n", p.DocumentTitle)
	fmt.Fprintf(&b, "Review and sign here:\n%s\n\n", p.SigningURL)
	fmt.Fprintf(&b, "This link expires on %s.\n", p.ExpirationDate.Format("January 2, 2006"))
	if p.ReminderCount > 1 {
		fmt.Fprintf(&b, "\nThis is reminder number %d.\n", p.ReminderCount)
	}

	return Message{
		FromName:    fromName,
		FromAddress: fromAddress,
		ToName:      p.RecipientName,
		ToAddress:   p.RecipientEmail,
		Subject:     subject,
		Body:        b.String(),
	}
}

func displayName(name string) string {
	if name == "" {
		return "there"
	}
	return name
}
