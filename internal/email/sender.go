package email

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
)

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender builds the provider client. fromName is rendered as
// "Name <addr>" in the From header.
func NewResendSender(apiKey, fromEmail, fromName string) *ResendSender {
	from := fromEmail
	if fromName != "" {
		from = fmt.Sprintf("%s <%s>", fromName, fromEmail)
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	req := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	for _, att := range msg.Attachments {
		req.Attachments = append(req.Attachments, &resend.Attachment{
			Filename: att.Filename,
			Content:  att.Content,
		})
	}

	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return errors.Wrapf(err, "send %q to %s", msg.Subject, msg.To)
	}
	return nil
}
