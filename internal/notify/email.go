package notify

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// EmailSender delivers a single message to one recipient.
type EmailSender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends mail through a plain SMTP account.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.SugaredLogger
}

// NewSMTPSender constructs an SMTP sender. Returns an error when the host
// or sender address is missing so misconfiguration fails at startup, not on
// the first checkout.
func NewSMTPSender(host string, port int, username, password, from string, log *zap.SugaredLogger) (*SMTPSender, error) {
	if host == "" || from == "" {
		return nil, fmt.Errorf("smtp host and sender email must be configured")
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		log:    log,
	}, nil
}

func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	s.log.Infof("email sent to %s: %s", to, subject)
	return nil
}
