package email

import (
	"context"
)

// Attachment represents a file attachment for an email.
type Attachment struct {
	Content  []byte // raw file bytes
	FileName string // e.g. "devis-CH-2024-031.pdf"
	MIMEType string // e.g. "application/pdf"
}

// QuoteReminder is the content of a follow-up email for an unconfirmed quote.
type QuoteReminder struct {
	QuoteID      string
	Reference    string
	ClientName   string
	SiteName     string
	Object       string
	QuoteDate    string
	ReminderDate string
	TotalTTC     float64
}

type Sender interface {
	SendQuoteReminderEmail(ctx context.Context, toEmail string, reminder QuoteReminder, attachments ...Attachment) error
}

// NoopSender drops every email. It is used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendQuoteReminderEmail(ctx context.Context, toEmail string, reminder QuoteReminder, attachments ...Attachment) error {
	return nil
}

var (
	_ Sender = NoopSender{}
	_ Sender = (*SMTPSender)(nil)
)
