package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mailjet "github.com/mailjet/mailjet-apiv3-go"
)

// Mailer sends a single email to a single recipient. Fan-out across
// recipients is the caller's concern so that one failed send never hides
// the rest of the batch.
type Mailer interface {
	Send(ctx context.Context, to, toName, subject, htmlBody, textBody string) error
}

// MailjetMailer sends mail through the Mailjet API.
type MailjetMailer struct {
	client     *mailjet.Client
	sender     string
	senderName string
}

// NewMailjetMailer creates a mailer from API credentials.
func NewMailjetMailer(publicKey, privateKey, sender, senderName string) (*MailjetMailer, error) {
	if strings.TrimSpace(publicKey) == "" || strings.TrimSpace(privateKey) == "" {
		return nil, errors.New("mailjet keys are required")
	}
	if strings.TrimSpace(sender) == "" {
		return nil, errors.New("mailjet sender address is required")
	}
	return &MailjetMailer{
		client:     mailjet.NewMailjetClient(publicKey, privateKey),
		sender:     sender,
		senderName: senderName,
	}, nil
}

// Send dispatches one message.
func (m *MailjetMailer) Send(_ context.Context, to, toName, subject, htmlBody, textBody string) error {
	info := []mailjet.InfoMessagesV31{{
		From: &mailjet.RecipientV31{
			Email: m.sender,
			Name:  m.senderName,
		},
		To: &mailjet.RecipientsV31{
			mailjet.RecipientV31{Email: to, Name: toName},
		},
		Subject:  subject,
		HTMLPart: htmlBody,
		TextPart: textBody,
	}}
	msgs := mailjet.MessagesV31{Info: info}
	if _, err := m.client.SendMailV31(&msgs); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
