package notifier

import (
	"gopkg.in/gomail.v2"
)

// SMTPSender delivers alert emails through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates a new SMTP email sender
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers one alert email to all of its recipients.
func (s *SMTPSender) Send(msg EmailMessage) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.Recipients...)
	m.SetHeader("Subject", msg.Subject)

	// Down alerts are flagged for priority-aware mail clients.
	if msg.HighPriority {
		m.SetHeader("X-Priority", "1")
		m.SetHeader("X-MSMail-Priority", "High")
		m.SetHeader("Importance", "High")
	}

	m.SetBody("text/plain", msg.TextBody)
	m.AddAlternative("text/html", msg.HTMLBody)

	return s.dialer.DialAndSend(m)
}
