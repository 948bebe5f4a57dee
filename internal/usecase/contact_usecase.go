package usecase

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/infrastructure/relay"
	"swadesh-intern/internal/logging"
	"swadesh-intern/internal/validate"
)

const ContactSubject = "New Contact Message - SwadeshIntern"

type ContactInput struct {
	Name    string
	Email   string
	Message string
	// Honeypot is a hidden form field; bots fill it, people do not.
	Honeypot string
}

type Contact struct {
	sender relay.Sender
	logger logrus.FieldLogger
}

func NewContact(sender relay.Sender, logger logrus.FieldLogger) *Contact {
	return &Contact{sender: sender, logger: logging.OrDiscard(logger)}
}

// Send validates the message and forwards it to the site inbox. Honeypot
// submissions are accepted and silently dropped.
func (u *Contact) Send(ctx context.Context, in ContactInput) error {
	if strings.TrimSpace(in.Honeypot) != "" {
		u.logger.Info("contact honeypot triggered, message dropped")
		return nil
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	err := validate.Struct(validate.ContactForm{Name: in.Name, Email: in.Email, Message: in.Message})
	if err != nil {
		return err
	}
	if u.sender == nil {
		return ErrUnavailable
	}
	return u.sender.Send(ctx, relay.Message{Name: in.Name, Email: in.Email, Body: in.Message, Subject: ContactSubject})
}
