package email

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

const pkg = "emailSender/"

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Sender delivers share-link notifications over SMTP.
type Sender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSender(cfg Config) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (s *Sender) Send(ctx context.Context, to string, url string, expiresAt time.Time) error {
	op := pkg + "Send"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Document Shared With You")
	m.SetBody("text/html", fmt.Sprintf(
		`<p>You've been given access to a document.</p>
<p><strong>Important:</strong> this link expires at %s.</p>
<p><a href="%s">Access Document</a></p>
<p>If the link doesn't work, copy and paste this URL into your browser:</p>
<p>%s</p>`,
		expiresAt.Format(time.RFC1123), url, url))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
