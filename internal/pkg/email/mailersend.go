package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/mailersend/mailersend-go"
)

// MailerSendConfig holds MailerSend configuration
type MailerSendConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// MailerSendClient sends emails via the MailerSend API
type MailerSendClient struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

// NewMailerSendClient creates a MailerSend email client
func NewMailerSendClient(config MailerSendConfig) *MailerSendClient {
	return &MailerSendClient{
		client: mailersend.NewMailersend(config.APIKey),
		from:   mailersend.From{Name: config.FromName, Email: config.FromEmail},
	}
}

// Send sends an email via MailerSend
func (c *MailerSendClient) Send(ctx context.Context, msg *EmailMessage) error {
	message := c.client.Email.NewMessage()
	message.SetFrom(c.from)
	message.SetRecipients([]mailersend.Recipient{{Name: msg.ToName, Email: msg.To}})
	message.SetSubject(msg.Subject)

	if strings.TrimSpace(msg.TextContent) != "" {
		message.SetText(msg.TextContent)
	}
	if strings.TrimSpace(msg.HTMLContent) != "" {
		message.SetHTML(msg.HTMLContent)
	}

	if _, err := c.client.Email.Send(ctx, message); err != nil {
		return fmt.Errorf("mailersend: %w", err)
	}
	return nil
}
