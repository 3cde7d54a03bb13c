package email

import (
	"cardkey_backend/internal/config"
	"cardkey_backend/internal/logger"

	"gopkg.in/gomail.v2"
)

// SMTPSender delivers mail through the configured SMTP relay.
type SMTPSender struct {
	cfg *config.Config
}

// NoopSender is used when email is disabled in config; sends are logged
// and dropped.
type NoopSender struct{}

// NewProvider picks the implementation from config.
func NewProvider(cfg *config.Config) Provider {
	if !cfg.Email.Enabled {
		return &NoopSender{}
	}
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Email.FromEmail, s.cfg.Email.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(
		s.cfg.Email.SMTPHost,
		s.cfg.Email.SMTPPort,
		s.cfg.Email.SMTPUsername,
		s.cfg.Email.SMTPPassword,
	)
	return d.DialAndSend(m)
}

func (s *SMTPSender) SendWelcome(to, username string) error {
	return s.Send(to, "Welcome", renderWelcome(username))
}

func (s *SMTPSender) SendCardsExpired(to string, codes []string) error {
	return s.Send(to, "Card keys expired", renderCardsExpired(codes))
}

func (s *NoopSender) Send(to, subject, htmlBody string) error {
	logger.Debug("email disabled, dropping message", "to", to, "subject", subject)
	return nil
}

func (s *NoopSender) SendWelcome(to, username string) error {
	return s.Send(to, "Welcome", "")
}

func (s *NoopSender) SendCardsExpired(to string, codes []string) error {
	return s.Send(to, "Card keys expired", "")
}
