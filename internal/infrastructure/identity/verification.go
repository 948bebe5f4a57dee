package identity

import (
	"context"
	"net/url"

	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/logging"
)

type VerificationSender interface {
	SendVerification(ctx context.Context, email, link string) error
}

// LogSender writes verification links to the log. It stands in for a mail
// transport in development and in deployments that verify through
// Supabase.
type LogSender struct {
	Logger logrus.FieldLogger
}

func (s LogSender) SendVerification(_ context.Context, email, link string) error {
	log := logging.OrDiscard(s.Logger).WithField("email", email)
	log.Info("verification link issued")
	log.WithField("link", link).Debug("verification link")
	return nil
}

func verificationLink(base, token string) string {
	return base + "/verify-email?token=" + url.QueryEscape(token)
}
