package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSender struct {
	name  string
	err   error
	calls int
}

func (s *stubSender) Name() string { return s.name }

func (s *stubSender) Send(context.Context, Message) error {
	s.calls++
	return s.err
}

var testFrom = mail.Address{Name: "Chamber", Address: "noreply@chamber.local"}

func TestChain_FirstSuccessWins(t *testing.T) {
	failing := &stubSender{name: "brevo", err: errors.New("boom")}
	ok := &stubSender{name: "sendgrid"}
	never := &stubSender{name: "gmail"}
	console := NewConsole()

	chain := NewChain(failing, ok, never)
	chain.Fallback = console

	name, err := chain.Send(context.Background(), Message{Subject: "s"})
	require.NoError(t, err)
	assert.Equal(t, "sendgrid", name)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 0, never.calls)
	assert.Empty(t, console.Messages())
}

func TestChain_AllFail(t *testing.T) {
	console := NewConsole()
	chain := NewChain(&stubSender{name: "a", err: errors.New("x")}, &stubSender{name: "b", err: errors.New("y")})
	chain.Fallback = console

	name, err := chain.Send(context.Background(), Message{Subject: "s"})
	require.Error(t, err)
	assert.Empty(t, name)
	assert.Contains(t, err.Error(), "a: x")
	assert.Contains(t, err.Error(), "b: y")
	assert.Len(t, console.Messages(), 1)
}

func TestChain_NoProvider(t *testing.T) {
	_, err := NewChain().Send(context.Background(), Message{})
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestFromSettings_Order(t *testing.T) {
	chain := FromSettings(Settings{
		From:             testFrom,
		GmailUser:        "me@gmail.com",
		GmailAppPassword: "pw",
		BrevoAPIKey:      "key",
		SendGridAPIKey:   "sg",
	})
	assert.Equal(t, []string{"brevo", "sendgrid", "gmail"}, chain.Providers())
	assert.Empty(t, FromSettings(Settings{From: testFrom}).Providers())
}

func TestBrevo_Send(t *testing.T) {
	var got brevoRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/smtp/email", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"1"}`))
	}))
	defer srv.Close()

	b := NewBrevo("secret", testFrom)
	b.BaseURL = srv.URL

	err := b.Send(context.Background(), Message{
		To:      mail.Address{Name: "A", Address: "a@x.com"},
		Subject: "Hi",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.To[0].Email)
	assert.Equal(t, "noreply@chamber.local", got.Sender.Email)
	assert.Equal(t, "<p>hi</p>", got.HTMLContent)
}

func TestBrevo_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	b := NewBrevo("bad", testFrom)
	b.BaseURL = srv.URL
	err := b.Send(context.Background(), Message{To: mail.Address{Address: "a@x.com"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSendGrid_Send(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewSendGrid("sg-key", testFrom)
	s.Host = srv.URL
	err := s.Send(context.Background(), Message{To: mail.Address{Address: "a@x.com"}, Subject: "S", HTML: "<b>x</b>", Text: "x"})
	require.NoError(t, err)
	assert.NotEmpty(t, body["personalizations"])
}

func TestBuildMIME(t *testing.T) {
	raw, err := buildMIME(testFrom, Message{
		To:      mail.Address{Address: "a@x.com"},
		Subject: "Reset",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
	}, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	msg, err := mail.ReadMessage(strings.NewReader(string(raw)))
	require.NoError(t, err)
	assert.Equal(t, "<a@x.com>", msg.Header.Get("To"))
	assert.Contains(t, msg.Header.Get("Content-Type"), "multipart/alternative")
	assert.Contains(t, string(raw), "plain body")
	assert.Contains(t, string(raw), "<p>html body</p>")
}

func TestResetMessage_EscapesName(t *testing.T) {
	msg, err := ResetMessage(mail.Address{Name: "<b>Eve</b>", Address: "e@x.com"}, "http://localhost:3000/reset-password/abc")
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "&lt;b&gt;Eve&lt;/b&gt;")
	assert.Contains(t, msg.HTML, "http://localhost:3000/reset-password/abc")
	assert.Contains(t, msg.Text, "http://localhost:3000/reset-password/abc")
	assert.Equal(t, resetSubject, msg.Subject)
}
