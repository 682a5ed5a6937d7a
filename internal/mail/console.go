package mail

import (
	"context"

	"github.com/sirupsen/logrus"
)

// ConsoleMailer writes messages to the log instead of delivering them. Used
// in development when no Sendgrid key is configured.
type ConsoleMailer struct {
	logger *logrus.Logger
}

var _ Mailer = (*ConsoleMailer)(nil)

func NewConsoleMailer(logger *logrus.Logger) *ConsoleMailer {
	return &ConsoleMailer{logger: logger}
}

func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	m.logger.WithFields(logrus.Fields{
		"from":    msg.FromAddress,
		"to":      msg.ToAddress,
		"subject": msg.Subject,
	}).Info("console mailer message")
	m.logger.Info(msg.Body)
	return nil
}
