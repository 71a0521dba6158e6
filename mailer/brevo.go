package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"time"
)

const brevoBaseURL = "https://api.brevo.com"

// Brevo sends through the Brevo transactional email REST API.
type Brevo struct {
	apiKey  string
	from    mail.Address
	BaseURL string
	Client  *http.Client
}

func NewBrevo(apiKey string, from mail.Address) *Brevo {
	return &Brevo{
		apiKey:  apiKey,
		from:    from,
		BaseURL: brevoBaseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (b *Brevo) Name() string { return "brevo" }

type brevoAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoRequest struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
	TextContent string         `json:"textContent,omitempty"`
}

func (b *Brevo) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(brevoRequest{
		Sender:      brevoAddress{Name: b.from.Name, Email: b.from.Address},
		To:          []brevoAddress{{Name: msg.To.Name, Email: msg.To.Address}},
		Subject:     msg.Subject,
		HTMLContent: msg.HTML,
		TextContent: msg.Text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL+"/v3/smtp/email", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", b.apiKey)

	res, err := b.Client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return fmt.Errorf("brevo API error: %d - %s", res.StatusCode, detail)
	}
	return nil
}
