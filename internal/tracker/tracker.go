// Package tracker advances document instances through their signing
// lifecycle: ready, sent, viewed, then signed or declined, with expiration as
// a policy sweep. Every transition appends one activity entry. Notification
// email is best effort and never rolls back a persisted transition.
package tracker

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"inkwell/internal/mail"
	"inkwell/internal/utils"
	"inkwell/pkg/types"

	"github.com/sirupsen/logrus"
)

type documentStore interface {
	Document(ctx context.Context, documentID string) (*types.Document, error)
	DocumentsByIDs(ctx context.Context, documentIDs []string) ([]types.Document, error)
	DocumentIDsByProgram(ctx context.Context, programID string) ([]string, error)
	Count(ctx context.Context) (int, error)
}

type instanceStore interface {
	Instance(ctx context.Context, instanceID string) (*types.DocumentInstance, error)
	InstancesByDocument(ctx context.Context, documentID string) ([]types.DocumentInstance, error)
	Create(ctx context.Context, instance *types.DocumentInstance) error
	Update(ctx context.Context, instance *types.DocumentInstance) error
	All(ctx context.Context) ([]types.DocumentInstance, error)
	CountByStatus(ctx context.Context, documentID string) (map[types.InstanceStatus]int, error)
	SentSince(ctx context.Context, since time.Time) ([]types.DocumentInstance, error)
	SearchByRecipient(ctx context.Context, term string) ([]types.DocumentInstance, error)
	ExistsForRecipient(ctx context.Context, documentID, recipientEmail string) (bool, error)
	OverdueCandidates(ctx context.Context, now time.Time) ([]types.DocumentInstance, error)
}

type activityStore interface {
	Append(ctx context.Context, entry *types.ActivityEntry) error
	ByInstance(ctx context.Context, instanceID string) ([]types.ActivityEntry, error)
}

type Service struct {
	logger    *logrus.Logger
	config    *types.Config
	documents documentStore
	instances instanceStore
	activity  activityStore
	mailer    mail.Mailer
}

func New(
	logger *logrus.Logger,
	config *types.Config,
	documents documentStore,
	instances instanceStore,
	activity activityStore,
	mailer mail.Mailer,
) *Service {
	return &Service{
		logger:    logger,
		config:    config,
		documents: documents,
		instances: instances,
		activity:  activity,
		mailer:    mailer,
	}
}

type CreateInstanceInput struct {
	DocumentID     string `form:"document_id"`
	RecipientID    string `form:"recipient_id"`
	RecipientType  string `form:"recipient_type"`
	RecipientName  string `form:"recipient_name"`
	RecipientEmail string `form:"recipient_email"`
	ExpirationDays int    `form:"expiration_days"`
}

// CreateInstance creates one recipient-specific delivery of a document. No
// duplicate check happens here; callers wanting one use InstanceExists first.
func (s *Service) CreateInstance(ctx context.Context, input CreateInstanceInput) (string, error) {
	days := input.ExpirationDays
	if days <= 0 {
		days = s.config.DefaultExpirationDays
	}

	now := time.Now()
	instance := &types.DocumentInstance{
		ID:             utils.NanoID(),
		AccessToken:    utils.NanoID(),
		DocumentID:     input.DocumentID,
		RecipientID:    input.RecipientID,
		RecipientType:  input.RecipientType,
		RecipientName:  input.RecipientName,
		RecipientEmail: input.RecipientEmail,
		Status:         types.InstanceStatusReady,
		ExpirationDate: now.AddDate(0, 0, days),
	}

	if err := s.instances.Create(ctx, instance); err != nil {
		return "", fmt.Errorf("create instance: %w", err)
	}

	if err := s.appendActivity(ctx, instance.ID, types.ActivityCreated, "", "", map[string]any{
		"recipientEmail": instance.RecipientEmail,
	}); err != nil {
		return "", err
	}

	s.logger.WithFields(logrus.Fields{
		"instance_id": instance.ID,
		"document_id": instance.DocumentID,
	}).Info("instance created")

	return instance.ID, nil
}

// InstanceExists is the advisory one-instance-per-recipient check. Nothing
// enforces it; duplicate prevention is the caller's choice.
func (s *Service) InstanceExists(ctx context.Context, documentID, recipientEmail string) (bool, error) {
	return s.instances.ExistsForRecipient(ctx, documentID, recipientEmail)
}

func (s *Service) Instance(ctx context.Context, instanceID string) (*types.DocumentInstance, error) {
	return s.instances.Instance(ctx, instanceID)
}

// InstancesByDocument lists every delivery of one document, newest first.
func (s *Service) InstancesByDocument(ctx context.Context, documentID string) ([]types.DocumentInstance, error) {
	if _, err := s.documents.Document(ctx, documentID); err != nil {
		return nil, err
	}
	return s.instances.InstancesByDocument(ctx, documentID)
}

// InstanceByAccess resolves an instance from its signing-link pair. A bad
// token is indistinguishable from a missing instance.
func (s *Service) InstanceByAccess(ctx context.Context, instanceID, accessToken string) (*types.DocumentInstance, error) {
	instance, err := s.instances.Instance(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(instance.AccessToken), []byte(accessToken)) != 1 {
		return nil, types.ErrInstanceNotFound
	}

	return instance, nil
}

func (s *Service) ActivityLog(ctx context.Context, instanceID string) ([]types.ActivityEntry, error) {
	return s.activity.ByInstance(ctx, instanceID)
}

type SendOptions struct {
	BaseURL      string `form:"base_url"`
	EmailSubject string `form:"email_subject"`
	EmailMessage string `form:"email_message"`
	ActorID      string `form:"actor_id"`
	ActorType    string `form:"actor_type"`
}

// SendDocument marks the instance sent and dispatches the signing invitation.
// The status write is the unit of success; a mail failure is logged and
// swallowed, so the instance counts as sent even when the recipient was never
// notified.
func (s *Service) SendDocument(ctx context.Context, instanceID string, opts SendOptions) error {
	instance, err := s.instances.Instance(ctx, instanceID)
	if err != nil {
		return err
	}

	doc, err := s.documents.Document(ctx, instance.DocumentID)
	if err != nil {
		return err
	}

	now := time.Now()
	instance.Status = types.InstanceStatusSent
	if instance.SentAt == nil {
		instance.SentAt = &now
	}

	if err := s.instances.Update(ctx, instance); err != nil {
		return fmt.Errorf("persist send: %w", err)
	}

	if err := s.appendActivity(ctx, instance.ID, types.ActivitySent, opts.ActorID, opts.ActorType, nil); err != nil {
		return err
	}

	msg := mail.ComposeSigningInvite(s.config.MailFromName, s.config.MailFromAddress, mail.SigningInviteParams{
		RecipientName:  instance.RecipientName,
		RecipientEmail: instance.RecipientEmail,
		DocumentTitle:  doc.Title,
		SigningURL:     s.signingURL(opts.BaseURL, instance),
		ExpirationDate: instance.ExpirationDate,
		Subject:        opts.EmailSubject,
		Message:        opts.EmailMessage,
	})
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.WithError(err).WithField("instance_id", instance.ID).Error("signing invitation delivery failed")
	}

	return nil
}

// SendReminder nudges a recipient. Refused outright for signed or declined
// instances; any other status is fair game, whether or not the instance has
// been sent yet.
func (s *Service) SendReminder(ctx context.Context, instanceID, baseURL string) error {
	instance, err := s.instances.Instance(ctx, instanceID)
	if err != nil {
		return err
	}

	if instance.Status.Terminal() {
		return types.ErrInstanceTerminal
	}

	doc, err := s.documents.Document(ctx, instance.DocumentID)
	if err != nil {
		return err
	}

	now := time.Now()
	instance.ReminderCount++
	instance.LastReminderSent = &now

	if err := s.instances.Update(ctx, instance); err != nil {
		return fmt.Errorf("persist reminder: %w", err)
	}

	if err := s.appendActivity(ctx, instance.ID, types.ActivityReminderSent, "", "", map[string]any{
		"reminderCount": instance.ReminderCount,
	}); err != nil {
		return err
	}

	msg := mail.ComposeReminder(s.config.MailFromName, s.config.MailFromAddress, mail.ReminderParams{
		RecipientName:  instance.RecipientName,
		RecipientEmail: instance.RecipientEmail,
		DocumentTitle:  doc.Title,
		SigningURL:     s.signingURL(baseURL, instance),
		ExpirationDate: instance.ExpirationDate,
		ReminderCount:  instance.ReminderCount,
	})
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.WithError(err).WithField("instance_id", instance.ID).Error("reminder delivery failed")
	}

	return nil
}

// statusTimestamp applies the fixed status-to-timestamp-field table. Each
// timestamp is written at most once; there is no un-signing.
func statusTimestamp(instance *types.DocumentInstance, status types.InstanceStatus, now time.Time) {
	switch status {
	case types.InstanceStatusSent:
		if instance.SentAt == nil {
			instance.SentAt = &now
		}
	case types.InstanceStatusViewed:
		if instance.ViewedAt == nil {
			instance.ViewedAt = &now
		}
	case types.InstanceStatusSigned:
		if instance.SignedAt == nil {
			instance.SignedAt = &now
		}
	case types.InstanceStatusDeclined:
		if instance.DeclinedAt == nil {
			instance.DeclinedAt = &now
		}
	}
}

// UpdateStatus is the generic transition entry point for viewed, signed, and
// declined. Ordering is not validated: the signing endpoint is trusted, and
// two racing callers resolve last-write-wins.
func (s *Service) UpdateStatus(ctx context.Context, instanceID string, update types.StatusUpdate) error {
	switch update.Status {
	case types.InstanceStatusViewed, types.InstanceStatusSigned, types.InstanceStatusDeclined:
	default:
		return types.ErrInvalidStatus
	}

	instance, err := s.instances.Instance(ctx, instanceID)
	if err != nil {
		return err
	}

	now := time.Now()
	instance.Status = update.Status
	statusTimestamp(instance, update.Status, now)

	if len(update.FormData) > 0 {
		if instance.FormData == nil {
			instance.FormData = make(map[string]any, len(update.FormData))
		}
		for k, v := range update.FormData {
			instance.FormData[k] = v
		}
	}

	details := map[string]any{}
	if update.IPAddress != "" {
		details["ipAddress"] = update.IPAddress
	}
	if update.UserAgent != "" {
		details["userAgent"] = update.UserAgent
	}

	switch update.Status {
	case types.InstanceStatusSigned:
		sig := update.SignatureData
		if sig == nil {
			sig = &types.SignatureData{}
		}
		if sig.IPAddress == "" {
			sig.IPAddress = update.IPAddress
		}
		if sig.UserAgent == "" {
			sig.UserAgent = update.UserAgent
		}
		if sig.Location == "" {
			sig.Location = update.Location
		}
		if sig.SignedAt.IsZero() {
			sig.SignedAt = now
		}
		instance.SignatureData = sig
	case types.InstanceStatusDeclined:
		if update.DeclinedReason != "" {
			instance.DeclinedReason = &update.DeclinedReason
			details["declinedReason"] = update.DeclinedReason
		}
	}

	if err := s.instances.Update(ctx, instance); err != nil {
		return fmt.Errorf("persist status update: %w", err)
	}

	if len(details) == 0 {
		details = nil
	}
	if err := s.appendActivity(ctx, instance.ID, string(update.Status), instance.RecipientID, instance.RecipientType, details); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"instance_id": instance.ID,
		"status":      update.Status,
	}).Info("instance status updated")

	return nil
}

// SweepExpired marks every overdue non-terminal instance expired. This is an
// opt-in operator command, not a background process; display code still
// treats expiration as a passive date comparison.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	candidates, err := s.instances.OverdueCandidates(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	swept := 0
	for i := range candidates {
		instance := &candidates[i]
		instance.Status = types.InstanceStatusExpired

		if err := s.instances.Update(ctx, instance); err != nil {
			s.logger.WithError(err).WithField("instance_id", instance.ID).Error("failed to expire instance")
			continue
		}

		if err := s.appendActivity(ctx, instance.ID, types.ActivityExpired, "", "system", nil); err != nil {
			return swept, err
		}
		swept++
	}

	return swept, nil
}

func (s *Service) signingURL(baseURL string, instance *types.DocumentInstance) string {
	if baseURL == "" {
		baseURL = s.config.SigningBaseURL
	}
	return baseURL + instance.AccessPath()
}

func (s *Service) appendActivity(ctx context.Context, instanceID, action, actorID, actorType string, details map[string]any) error {
	entry := &types.ActivityEntry{
		InstanceID: instanceID,
		Action:     action,
		ActorID:    actorID,
		ActorType:  actorType,
		Details:    details,
	}
	if err := s.activity.Append(ctx, entry); err != nil {
		return fmt.Errorf("append %s activity: %w", action, err)
	}
	return nil
}
