// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package contact

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Email is a composed message ready for delivery.
type Email struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

var emailTemplate = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #111;">
  <h2>New contact form submission</h2>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td><strong>Name</strong></td><td>{{.Name}}</td></tr>
    <tr><td><strong>Email</strong></td><td><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
    {{- if .Phone}}
    <tr><td><strong>Phone</strong></td><td>{{.Phone}}</td></tr>
    {{- end}}
    {{- if .Budget}}
    <tr><td><strong>Budget</strong></td><td>{{.Budget}}</td></tr>
    {{- end}}
    {{- if .Services}}
    <tr><td><strong>Services</strong></td><td>{{range $i, $s := .Services}}{{if $i}}, {{end}}{{$s}}{{end}}</td></tr>
    {{- end}}
  </table>
  <h3>Message</h3>
  <p>{{range $i, $line := .MessageLines}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
  <p style="color: #888; font-size: 12px;">Submission {{.ID}} received {{.ReceivedAt}}</p>
</body>
</html>
`))

type emailData struct {
	Submission
	ID           string
	ReceivedAt   string
	MessageLines []string
}

// Compose builds the notification email for a validated submission.
// User text is kept verbatim: the HTML body escapes it and the text body
// carries it as is.
func Compose(sub Submission, id, from string, to []string, receivedAt time.Time) (Email, error) {
	data := emailData{
		Submission:   sub,
		ID:           id,
		ReceivedAt:   receivedAt.UTC().Format(time.RFC1123),
		MessageLines: strings.Split(sub.Message, "\n"),
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, data); err != nil {
		return Email{}, fmt.Errorf("rendering contact email: %w", err)
	}

	return Email{
		From:    from,
		To:      to,
		ReplyTo: sub.Email,
		Subject: fmt.Sprintf("New enquiry from %s [%s]", headerText(sub.Name), shortID(id)),
		HTML:    buf.String(),
		Text:    plainText(data),
	}, nil
}

// headerText folds line breaks and runs of whitespace into single spaces.
func headerText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func plainText(d emailData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\n", d.Name, d.Email)
	if d.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", d.Phone)
	}
	if d.Budget != "" {
		fmt.Fprintf(&b, "Budget: %s\n", d.Budget)
	}
	if len(d.Services) > 0 {
		fmt.Fprintf(&b, "Services: %s\n", strings.Join(d.Services, ", "))
	}
	fmt.Fprintf(&b, "\n%s\n\nSubmission %s received %s\n", d.Message, d.ID, d.ReceivedAt)
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
