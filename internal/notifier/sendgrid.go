package notifier

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridNotifier struct {
	client *sendgrid.Client
	from   *sgmail.Email
	logger *slog.Logger
}

func NewSendGridNotifier(apiKey, fromName, fromEmail string, logger *slog.Logger) *SendGridNotifier {
	return &SendGridNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(fromName, fromEmail),
		logger: logger.With("component", "sendgrid_notifier"),
	}
}

func (n *SendGridNotifier) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(n.from)

	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.To))
	p.Subject = msg.Subject
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/html", msg.HTML))

	for _, a := range msg.Attachments {
		m.AddAttachment(&sgmail.Attachment{
			Content:     base64.StdEncoding.EncodeToString(a.Content),
			Type:        a.ContentType,
			Filename:    a.Filename,
			Disposition: "attachment",
		})
	}

	res, err := n.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		n.logger.WarnContext(ctx, "SendGrid rejected message",
			"to", msg.To,
			"status_code", res.StatusCode,
			"body", res.Body)
		return fmt.Errorf("sendgrid returned status %d", res.StatusCode)
	}
	return nil
}
