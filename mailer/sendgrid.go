package mailer

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendgridEndpoint = "/v3/mail/send"

type SendGrid struct {
	key  string
	from *sgmail.Email
	Host string
}

func NewSendGrid(key string, from mail.Address) *SendGrid {
	return &SendGrid{
		key:  key,
		from: sgmail.NewEmail(from.Name, from.Address),
		Host: "https://api.sendgrid.com",
	}
}

func (s *SendGrid) Name() string { return "sendgrid" }

func (s *SendGrid) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.To.Name, msg.To.Address))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	if msg.Text != "" {
		m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	}
	m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	return m
}

func (s *SendGrid) Send(_ context.Context, msg Message) error {
	req := sendgrid.GetRequest(s.key, sendgridEndpoint, s.Host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid error: %d - %s", res.StatusCode, res.Body)
	}
	return nil
}
