package mailer

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"
)

// SMTP relays through an authenticated submission server (port 587,
// STARTTLS negotiated by net/smtp).
type SMTP struct {
	name string
	addr string
	host string
	auth smtp.Auth
	from mail.Address
}

func NewSMTP(name, host string, port int, user, password string, from mail.Address) *SMTP {
	return &SMTP{
		name: name,
		addr: net.JoinHostPort(host, strconv.Itoa(port)),
		host: host,
		auth: smtp.PlainAuth("", user, password, host),
		from: from,
	}
}

func (s *SMTP) Name() string { return s.name }

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	body, err := buildMIME(s.from, msg, time.Now())
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(s.addr, s.auth, s.from.Address, []string{msg.To.Address}, body)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// buildMIME renders a multipart/alternative message with text and HTML parts.
func buildMIME(from mail.Address, msg Message, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	alt := multipart.NewWriter(&buf)

	headers := []struct{ k, v string }{
		{"From", from.String()},
		{"To", msg.To.String()},
		{"Subject", mime.QEncoding.Encode("utf-8", msg.Subject)},
		{"Date", now.Format(time.RFC1123Z)},
		{"MIME-Version", "1.0"},
		{"Content-Type", fmt.Sprintf("multipart/alternative; boundary=%s", alt.Boundary())},
	}
	var head bytes.Buffer
	for _, h := range headers {
		fmt.Fprintf(&head, "%s: %s\r\n", h.k, h.v)
	}
	head.WriteString("\r\n")

	parts := []struct{ ctype, content string }{
		{"text/plain; charset=utf-8", msg.Text},
		{"text/html; charset=utf-8", msg.HTML},
	}
	for _, p := range parts {
		if p.content == "" {
			continue
		}
		w, err := alt.CreatePart(textproto.MIMEHeader{"Content-Type": {p.ctype}})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return nil, err
		}
	}
	if err := alt.Close(); err != nil {
		return nil, err
	}

	return append(head.Bytes(), buf.Bytes()...), nil
}
