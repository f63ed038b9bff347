package contact

import (
	"context"
	"net/mail"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/Otsikow/bridge-study-global-sub004/core"
)

const (
	adminTemplate        = "contact_admin"
	confirmationTemplate = "contact_confirmation"
)

type (
	// Submission is a message posted from the public contact form.
	Submission struct {
		Name     string `json:"name" validate:"required,notblank,singleline,max=100"`
		Email    string `json:"email" validate:"required,email,max=255"`
		Message  string `json:"message" validate:"required,notblank,max=2000"`
		WhatsApp string `json:"whatsapp" validate:"singleline,max=30"`
	}

	Service struct {
		email core.EmailService
		admin mail.Address
	}
)

func (s *Submission) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Message = strings.TrimSpace(s.Message)
	s.WhatsApp = strings.TrimSpace(s.WhatsApp)
}

func NewService(email core.EmailService, adminEmail string) *Service {
	return &Service{email: email, admin: mail.Address{Address: adminEmail}}
}

// Send notifies the admin inbox and sends the sender a confirmation. sub must be normalized and validated.
func (svc *Service) Send(ctx context.Context, sub Submission) error {
	sender := mail.Address{Name: sub.Name, Address: sub.Email}
	messages := []*core.EmailMessage{
		{
			To:           []mail.Address{svc.admin},
			ReplyTo:      &sender,
			Subject:      "New contact form submission from " + headerSafe(sub.Name),
			TemplateName: adminTemplate,
			TemplateData: sub,
		},
		ConfirmationMessage(sub),
	}
	if err := svc.email.SendMessages(ctx, messages...); err != nil {
		return errors.Wrap(err, "sending contact emails")
	}
	return nil
}

// headerSafe collapses every run of whitespace, line breaks included, into a single space.
func headerSafe(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}), " ")
}

// ConfirmationMessage is the acknowledgement sent back to the person who filled in the form.
func ConfirmationMessage(sub Submission) *core.EmailMessage {
	return &core.EmailMessage{
		To:           []mail.Address{{Name: sub.Name, Address: sub.Email}},
		Subject:      "We received your message",
		TemplateName: confirmationTemplate,
		TemplateData: sub,
	}
}
