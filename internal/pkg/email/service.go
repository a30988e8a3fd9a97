package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/rs/zerolog/log"
)

const (
	TemplateBookingConfirmed = "booking_confirmed"
	TemplateBookingCancelled = "booking_cancelled"
)

// BookingMail is the data of booking emails
type BookingMail struct {
	GuestName       string
	RoomName        string
	CheckIn         string
	CheckOut        string
	NumberOfPersons int
	TotalCost       string
	CancelUntil     string
	BookingsURL     string
}

// Service renders templates and hands the result to a Sender
type Service struct {
	sender       Sender
	templates    map[string]*template.Template
	baseTemplate *template.Template
}

const (
	ProviderSendGrid   = "sendgrid"
	ProviderMailerSend = "mailersend"
)

// Config selects the email provider
type Config struct {
	Provider         string
	SendGridAPIKey   string
	MailerSendAPIKey string
	FromEmail        string
	FromName         string
}

// NewSender returns the configured provider. Without an API key for it
// mails are only logged.
func NewSender(config Config) Sender {
	switch config.Provider {
	case ProviderMailerSend:
		if config.MailerSendAPIKey != "" {
			return NewMailerSendClient(MailerSendConfig{
				APIKey:    config.MailerSendAPIKey,
				FromEmail: config.FromEmail,
				FromName:  config.FromName,
			})
		}
		log.Warn().Msg("MAILERSEND_API_KEY not set, emails will be logged only")
	case ProviderSendGrid, "":
		if config.SendGridAPIKey != "" {
			return NewSendGridClient(SendGridConfig{
				APIKey:    config.SendGridAPIKey,
				FromEmail: config.FromEmail,
				FromName:  config.FromName,
			})
		}
		log.Warn().Msg("SENDGRID_API_KEY not set, emails will be logged only")
	default:
		log.Warn().Str("provider", config.Provider).Msg("Unknown email provider, emails will be logged only")
	}
	return LogSender{}
}

// NewService creates email service over the configured provider
func NewService(config Config) *Service {
	return NewServiceWithSender(NewSender(config))
}

// NewServiceWithSender creates email service over a custom sender
func NewServiceWithSender(sender Sender) *Service {
	s := &Service{
		sender:       sender,
		templates:    make(map[string]*template.Template),
		baseTemplate: template.Must(template.New("base").Parse(BaseTemplate)),
	}
	s.loadTemplates()
	return s
}

func (s *Service) loadTemplates() {
	templates := map[string]string{
		TemplateBookingConfirmed: BookingConfirmedTemplate,
		TemplateBookingCancelled: BookingCancelledTemplate,
	}

	for name, content := range templates {
		s.templates[name] = template.Must(template.New(name).Parse(content))
	}
}

// Render renders a named template inside the base layout
func (s *Service) Render(templateName string, data interface{}) (string, error) {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	var contentBuf bytes.Buffer
	if err := tmpl.Execute(&contentBuf, data); err != nil {
		return "", err
	}

	var htmlBuf bytes.Buffer
	if err := s.baseTemplate.Execute(&htmlBuf, map[string]interface{}{
		"Content": template.HTML(contentBuf.String()),
	}); err != nil {
		return "", err
	}
	return htmlBuf.String(), nil
}

// SendSync renders and sends an email (blocking)
func (s *Service) SendSync(ctx context.Context, to, toName, templateName, subject string, data interface{}) error {
	html, err := s.Render(templateName, data)
	if err != nil {
		return err
	}

	return s.sender.Send(ctx, &EmailMessage{
		To:          to,
		ToName:      toName,
		Subject:     subject,
		HTMLContent: html,
	})
}

// SendBookingConfirmed sends the booking confirmation
func (s *Service) SendBookingConfirmed(ctx context.Context, to string, data BookingMail) error {
	return s.SendSync(ctx, to, data.GuestName, TemplateBookingConfirmed, "Бронирование подтверждено", data)
}

// SendBookingCancelled sends the cancellation notice
func (s *Service) SendBookingCancelled(ctx context.Context, to string, data BookingMail) error {
	return s.SendSync(ctx, to, data.GuestName, TemplateBookingCancelled, "Бронирование отменено", data)
}
