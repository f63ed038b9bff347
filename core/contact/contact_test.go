package contact

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Otsikow/bridge-study-global-sub004/core"
	emailsvc "github.com/Otsikow/bridge-study-global-sub004/services/email"
)

func TestSubmission_validation(t *testing.T) {
	validate, _ := core.NewValidator()
	valid := Submission{Name: "Jane", Email: "jane@example.com", Message: "Hello"}

	tests := []struct {
		name      string
		mutate    func(s *Submission)
		wantField string
	}{
		{"valid", func(s *Submission) {}, ""},
		{"missing name", func(s *Submission) { s.Name = "" }, "name"},
		{"name too long", func(s *Submission) { s.Name = strings.Repeat("a", 101) }, "name"},
		{"name with line break", func(s *Submission) { s.Name = "Jane\r\nBcc: x@evil.test" }, "name"},
		{"whatsapp with line break", func(s *Submission) { s.WhatsApp = "+233\n1" }, "whatsapp"},
		{"invalid email", func(s *Submission) { s.Email = "jane" }, "email"},
		{"blank message", func(s *Submission) { s.Message = "  " }, "message"},
		{"message too long", func(s *Submission) { s.Message = strings.Repeat("a", 2001) }, "message"},
		{"whatsapp too long", func(s *Submission) { s.WhatsApp = strings.Repeat("1", 31) }, "whatsapp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := valid
			tt.mutate(&sub)
			err := validate.Struct(sub)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErrs validator.ValidationErrors
			require.True(t, errors.As(err, &vErrs), "%v", err)
			assert.Equal(t, tt.wantField, vErrs[0].Field())
		})
	}
}

func TestSubmission_Normalize(t *testing.T) {
	sub := Submission{Name: " Jane ", Email: " jane@example.com\n", Message: "\tHi ", WhatsApp: " +233 "}
	sub.Normalize()
	assert.Equal(t, Submission{Name: "Jane", Email: "jane@example.com", Message: "Hi", WhatsApp: "+233"}, sub)
}

func TestService_Send(t *testing.T) {
	mock := emailsvc.NewMock(core.SiteData{AppName: "GEG", FrontendBaseURL: "https://geg.test"})
	svc := NewService(mock, "admin@geg.test")

	sub := Submission{
		Name:     `Jane <script>alert("x")</script>`,
		Email:    "jane@example.com",
		Message:  "I want to study <b>medicine</b>",
		WhatsApp: "+233201234567",
	}
	require.NoError(t, svc.Send(context.Background(), sub))

	sent := mock.Sent()
	require.Len(t, sent, 2)

	admin := sent[0]
	assert.Equal(t, "admin@geg.test", admin.To[0].Address)
	require.NotNil(t, admin.ReplyTo)
	assert.Equal(t, "jane@example.com", admin.ReplyTo.Address)
	assert.Contains(t, admin.HTMLContent, "+233201234567")
	assert.NotContains(t, admin.HTMLContent, "<script>")
	assert.NotContains(t, admin.HTMLContent, "<b>medicine</b>")
	assert.Contains(t, admin.HTMLContent, "&lt;b&gt;medicine&lt;/b&gt;")

	confirmation := sent[1]
	assert.Equal(t, "jane@example.com", confirmation.To[0].Address)
	assert.Contains(t, confirmation.TextContent, "https://geg.test")
	assert.NotContains(t, confirmation.HTMLContent, "<script>")
}

func TestService_Send_error(t *testing.T) {
	mock := emailsvc.NewMock(core.SiteData{})
	mock.Err = errors.New("sendgrid unavailable")
	svc := NewService(mock, "admin@geg.test")

	err := svc.Send(context.Background(), Submission{Name: "Jane", Email: "jane@example.com", Message: "Hi"})
	assert.EqualError(t, err, "sending contact emails: sendgrid unavailable")
}

func TestService_Send_subjectIsSingleLine(t *testing.T) {
	mock := emailsvc.NewMock(core.SiteData{})
	svc := NewService(mock, "admin@geg.test")

	err := svc.Send(context.Background(), Submission{Name: "Jane\r\nBcc: x@evil.test", Email: "jane@example.com", Message: "Hi"})
	require.NoError(t, err)

	sent := mock.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "New contact form submission from Jane Bcc: x@evil.test", sent[0].Subject)
	assert.NotContains(t, sent[0].Subject, "\n")
}
