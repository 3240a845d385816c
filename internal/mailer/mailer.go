package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/dom/movie-stream-website/internal/config"
)

// Mailer sends transactional email. Implementations report an opaque
// success/failure; callers decide what a failure means for their flow.
type Mailer interface {
	SendPasswordReset(to, name, resetURL string) error
	SendPasswordResetConfirmation(to, name string) error
}

type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

func (m *SMTPMailer) SendPasswordReset(to, name, resetURL string) error {
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\n"+
			"You requested a password reset. Click the link below to choose a new password:\r\n\r\n"+
			"%s\r\n\r\n"+
			"The link expires in 1 hour. If you didn't request this, you can ignore this email.\r\n",
		name, resetURL)
	return m.send(to, "Reset your password", body)
}

func (m *SMTPMailer) SendPasswordResetConfirmation(to, name string) error {
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\n"+
			"Your password was changed. All your devices have been signed out.\r\n\r\n"+
			"If this wasn't you, reset your password again immediately.\r\n",
		name)
	return m.send(to, "Your password was changed", body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	if m.host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
