package notifier

import (
	"context"
	"errors"
	"log/slog"
)

var ErrNoRecipient = errors.New("message has no recipient")

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Message struct {
	To          string
	ToName      string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Notifier delivers one message. Implementations must honour ctx cancellation.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// LogNotifier writes messages to the log instead of delivering them. It is the
// default when no mail provider is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "log_notifier")}
}

func (n *LogNotifier) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	attachments := make([]string, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		attachments = append(attachments, a.Filename)
	}
	n.logger.InfoContext(ctx, "Email not delivered, no mail provider configured",
		"to", msg.To,
		"subject", msg.Subject,
		"attachments", attachments)
	return nil
}
