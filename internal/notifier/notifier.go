package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/EpocDotFr/server-patrol/internal/model"
)

// EmailMessage is one alert email, addressed to every email recipient
// of the monitoring at once.
type EmailMessage struct {
	Recipients   []string
	Subject      string
	TextBody     string
	HTMLBody     string
	HighPriority bool
}

// EmailSender delivers one alert email.
type EmailSender interface {
	Send(msg EmailMessage) error
}

// SMSSender delivers one alert SMS to a single recipient.
type SMSSender interface {
	Send(to, body string) error
}

// The upstream SMS transport refuses more than one message per second.
const smsSendSpacing = time.Second

// Notifier dispatches email and SMS alerts on status transitions. It is
// a pure sink: delivery failures are logged and swallowed, persisted
// state is never touched, and nothing propagates back to the caller.
type Notifier struct {
	emailEnabled bool
	smsEnabled   bool
	email        EmailSender
	sms          SMSSender
	sleep        func(time.Duration)
}

// New creates a new notifier. The email and SMS channels are globally
// switched by the two flags; a nil sender disables its channel as well.
func New(emailEnabled, smsEnabled bool, email EmailSender, sms SMSSender) *Notifier {
	return &Notifier{
		emailEnabled: emailEnabled && email != nil,
		smsEnabled:   smsEnabled && sms != nil,
		email:        email,
		sms:          sms,
		sleep:        time.Sleep,
	}
}

// Notify delivers alerts for an already-committed status transition.
func (n *Notifier) Notify(ctx context.Context, m *model.Monitoring, oldStatus, newStatus model.Status) {
	if n.emailEnabled && len(m.EmailRecipients) > 0 {
		n.notifyEmail(m, newStatus)
	}

	if n.smsEnabled && len(m.SMSRecipients) > 0 {
		n.notifySMS(m, newStatus)
	}
}

func (n *Notifier) notifyEmail(m *model.Monitoring, newStatus model.Status) {
	slog.Info("Sending alert emails",
		"monitoring", m.Name,
		"recipients", len(m.EmailRecipients),
		"new_status", newStatus,
	)

	subject, textBody, htmlBody := renderEmail(m, newStatus)

	msg := EmailMessage{
		Recipients:   m.EmailRecipients,
		Subject:      subject,
		TextBody:     textBody,
		HTMLBody:     htmlBody,
		HighPriority: newStatus == model.StatusDown,
	}

	if err := n.email.Send(msg); err != nil {
		slog.Error("Failed to send alert emails",
			"monitoring", m.Name,
			"error", err,
		)
	}
}

func (n *Notifier) notifySMS(m *model.Monitoring, newStatus model.Status) {
	slog.Info("Sending alert SMS",
		"monitoring", m.Name,
		"recipients", len(m.SMSRecipients),
		"new_status", newStatus,
	)

	body := renderSMS(m, newStatus)

	for i, recipient := range m.SMSRecipients {
		if i > 0 {
			n.sleep(smsSendSpacing)
		}

		if err := n.sms.Send(recipient, body); err != nil {
			slog.Error("Failed to send alert SMS",
				"monitoring", m.Name,
				"recipient", recipient,
				"error", err,
			)
		}
	}
}
