package infra

import (
	"fmt"
	"net/smtp"

	"rambopet/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending clinic emails, optionally with
// attachments. All sends go through a circuit breaker so a dead relay fails
// fast instead of stalling scheduled jobs.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
	addr     string
	breaker  *CircuitBreaker
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.EmailFrom,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		breaker:  NewCircuitBreaker(DefaultCBConfig()),
	}
}

// Send delivers a plain-text email to the given recipients, attaching any
// files listed in attachments.
func (m *Mailer) Send(to []string, subject, body string, attachments ...string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = to
	e.Subject = subject
	e.Text = []byte(body)

	for _, path := range attachments {
		if _, err := e.AttachFile(path); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", path, err)
		}
	}

	return m.breaker.Execute(func() error {
		auth := smtp.PlainAuth("", m.user, m.password, m.host)
		return e.Send(m.addr, auth)
	})
}

// BreakerState reports the mail relay breaker state for the health endpoint.
func (m *Mailer) BreakerState() string {
	return m.breaker.State().String()
}
