// Package mailer delivers transactional email through the first configured
// provider that accepts the message.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
)

var ErrNoProvider = errors.New("no email provider configured")

type Message struct {
	To      mail.Address
	Subject string
	HTML    string
	Text    string
}

type Sender interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Chain tries each sender in order. When every sender fails, Fallback (if
// set) still sees the message, but the send is reported as failed.
type Chain struct {
	senders  []Sender
	Fallback Sender
}

func NewChain(senders ...Sender) *Chain {
	return &Chain{senders: senders}
}

// Send returns the name of the sender that accepted msg.
func (c *Chain) Send(ctx context.Context, msg Message) (string, error) {
	var errs []error
	for _, s := range c.senders {
		err := s.Send(ctx, msg)
		if err == nil {
			return s.Name(), nil
		}
		slog.WarnContext(ctx, "email provider failed", "provider", s.Name(), "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
	}

	if c.Fallback != nil {
		_ = c.Fallback.Send(ctx, msg)
	}
	if len(errs) == 0 {
		return "", ErrNoProvider
	}
	return "", errors.Join(errs...)
}

// Providers lists configured sender names in the order they are tried.
func (c *Chain) Providers() []string {
	names := make([]string, 0, len(c.senders))
	for _, s := range c.senders {
		names = append(names, s.Name())
	}
	return names
}

// Settings carries the provider credentials; empty credentials disable a
// provider.
type Settings struct {
	From              mail.Address
	BrevoAPIKey       string
	BrevoSMTPUser     string
	BrevoSMTPPassword string
	SendGridAPIKey    string
	GmailUser         string
	GmailAppPassword  string
}

// FromSettings builds the chain in priority order: Brevo API, Brevo SMTP,
// SendGrid, Gmail SMTP. The console sender is always the fallback.
func FromSettings(s Settings) *Chain {
	var senders []Sender
	if s.BrevoAPIKey != "" {
		senders = append(senders, NewBrevo(s.BrevoAPIKey, s.From))
	}
	if s.BrevoSMTPUser != "" && s.BrevoSMTPPassword != "" {
		senders = append(senders, NewSMTP("brevo-smtp", "smtp-relay.brevo.com", 587, s.BrevoSMTPUser, s.BrevoSMTPPassword, s.From))
	}
	if s.SendGridAPIKey != "" {
		senders = append(senders, NewSendGrid(s.SendGridAPIKey, s.From))
	}
	if s.GmailUser != "" && s.GmailAppPassword != "" {
		from := s.From
		from.Address = s.GmailUser
		senders = append(senders, NewSMTP("gmail", "smtp.gmail.com", 587, s.GmailUser, s.GmailAppPassword, from))
	}
	chain := NewChain(senders...)
	chain.Fallback = NewConsole()
	return chain
}
