package mailer

import (
	"context"
	"log/slog"
	"sync"
)

// Console logs messages instead of delivering them. Sent keeps every
// message for inspection in tests.
type Console struct {
	mu   sync.Mutex
	Sent []Message
}

func NewConsole() *Console {
	return &Console{}
}

func (c *Console) Name() string { return "console" }

func (c *Console) Send(ctx context.Context, msg Message) error {
	c.mu.Lock()
	c.Sent = append(c.Sent, msg)
	c.mu.Unlock()

	slog.InfoContext(ctx, "email not delivered, logged to console",
		"to", msg.To.Address, "subject", msg.Subject, "text", msg.Text)
	return nil
}

func (c *Console) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.Sent))
	copy(out, c.Sent)
	return out
}
