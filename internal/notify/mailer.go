package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends a single plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type smtpMailer struct {
	addr     string
	from     string
	user     string
	password string
	host     string
}

// NewSMTPMailer creates a Mailer speaking plain SMTP. Auth is used only
// when a user is configured, so local relays keep working.
func NewSMTPMailer(host string, port int, user, password, from string) Mailer {
	return &smtpMailer{
		addr:     fmt.Sprintf("%s:%d", host, port),
		from:     from,
		user:     user,
		password: password,
		host:     host,
	}
}

func (m *smtpMailer) Send(_ context.Context, to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	if err := smtp.SendMail(m.addr, auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
