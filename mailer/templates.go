package mailer

import (
	"bytes"
	htmltemplate "html/template"
	"net/mail"
	texttemplate "text/template"
)

const resetSubject = "Password Reset Link - Chamber of Commerce & Industry"

var resetHTML = htmltemplate.Must(htmltemplate.New("reset").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Password Reset</title></head>
<body style="margin:0;padding:0;font-family:Arial,sans-serif;background-color:#f4f4f4;">
  <div style="max-width:600px;margin:0 auto;background:#fff;border-radius:10px;overflow:hidden;">
    <div style="background:#1e40af;color:#fff;padding:32px;text-align:center;">
      <h1 style="margin:0;font-size:26px;">Password Reset Request</h1>
    </div>
    <div style="padding:32px;color:#374151;font-size:16px;line-height:1.6;">
      <h2 style="color:#1e40af;margin-top:0;">Hello {{.Name}},</h2>
      <p>We received a request to reset the password for your account. Click the button below to choose a new one.</p>
      <p style="text-align:center;margin:32px 0;">
        <a href="{{.URL}}" style="background:#1e40af;color:#fff;padding:14px 28px;border-radius:8px;text-decoration:none;font-weight:bold;">Reset Password</a>
      </p>
      <p>Or paste this link into your browser:<br><a href="{{.URL}}">{{.URL}}</a></p>
      <p>This link expires in 1 hour. If you did not request a reset you can ignore this email.</p>
    </div>
  </div>
</body>
</html>`))

var resetText = texttemplate.Must(texttemplate.New("reset").Parse(`Hello {{.Name}},

We received a request to reset the password for your account.
Open the link below to choose a new one:

{{.URL}}

This link expires in 1 hour. If you did not request a reset you can ignore this email.
`))

// ResetMessage renders the password reset email for to.
func ResetMessage(to mail.Address, resetURL string) (Message, error) {
	name := to.Name
	if name == "" {
		name = "User"
	}
	data := struct{ Name, URL string }{Name: name, URL: resetURL}

	var html, text bytes.Buffer
	if err := resetHTML.Execute(&html, data); err != nil {
		return Message{}, err
	}
	if err := resetText.Execute(&text, data); err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: resetSubject, HTML: html.String(), Text: text.String()}, nil
}
