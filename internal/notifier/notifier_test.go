package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EpocDotFr/server-patrol/internal/model"
)

type fakeEmailSender struct {
	messages []EmailMessage
	err      error
}

func (f *fakeEmailSender) Send(msg EmailMessage) error {
	f.messages = append(f.messages, msg)
	return f.err
}

type smsCall struct {
	to   string
	body string
}

type fakeSMSSender struct {
	calls []smsCall
	err   error
}

func (f *fakeSMSSender) Send(to, body string) error {
	f.calls = append(f.calls, smsCall{to, body})
	return f.err
}

func alertMonitoring() *model.Monitoring {
	return &model.Monitoring{
		Name:               "Example",
		URL:                "https://example.com",
		EmailRecipients:    []string{"ops@example.com"},
		SMSRecipients:      []string{"+33600000001"},
		LastStatusChangeAt: time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC),
		LastDownReason:     "HTTP error: 503 Service Unavailable",
	}
}

func TestNotifyDownEmail(t *testing.T) {
	email := &fakeEmailSender{}
	n := New(true, false, email, nil)

	n.Notify(context.Background(), alertMonitoring(), model.StatusUp, model.StatusDown)

	require.Len(t, email.messages, 1)
	msg := email.messages[0]
	assert.Equal(t, []string{"ops@example.com"}, msg.Recipients)
	assert.Equal(t, "Example is gone", msg.Subject)
	assert.True(t, msg.HighPriority)
	assert.Contains(t, msg.TextBody, "unreachable since")
	assert.Contains(t, msg.TextBody, "HTTP error: 503 Service Unavailable")
	assert.Contains(t, msg.HTMLBody, "https://example.com")
}

func TestNotifyUpEmail(t *testing.T) {
	email := &fakeEmailSender{}
	n := New(true, false, email, nil)

	n.Notify(context.Background(), alertMonitoring(), model.StatusDown, model.StatusUp)

	require.Len(t, email.messages, 1)
	msg := email.messages[0]
	assert.Equal(t, "Example is back up", msg.Subject)
	assert.False(t, msg.HighPriority)
	assert.Contains(t, msg.TextBody, "reachable again since")
}

func TestNotifySMS(t *testing.T) {
	sms := &fakeSMSSender{}
	n := New(false, true, nil, sms)

	n.Notify(context.Background(), alertMonitoring(), model.StatusUp, model.StatusDown)

	require.Len(t, sms.calls, 1)
	assert.Equal(t, "+33600000001", sms.calls[0].to)
	assert.Equal(t, "Server Patrol: Example is gone (HTTP error: 503 Service Unavailable)", sms.calls[0].body)
}

func TestNotifySMSPacing(t *testing.T) {
	sms := &fakeSMSSender{}
	n := New(false, true, nil, sms)

	var slept []time.Duration
	n.sleep = func(d time.Duration) {
		slept = append(slept, d)
	}

	m := alertMonitoring()
	m.SMSRecipients = []string{"+33600000001", "+33600000002", "+33600000003"}

	n.Notify(context.Background(), m, model.StatusUp, model.StatusDown)

	require.Len(t, sms.calls, 3)

	// One pause between consecutive sends, none before the first.
	require.Len(t, slept, 2)
	for _, d := range slept {
		assert.GreaterOrEqual(t, d, time.Second)
	}
}

func TestNotifyDisabledChannels(t *testing.T) {
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	n := New(false, false, email, sms)

	n.Notify(context.Background(), alertMonitoring(), model.StatusUp, model.StatusDown)

	assert.Empty(t, email.messages)
	assert.Empty(t, sms.calls)
}

func TestNotifyNoRecipients(t *testing.T) {
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	n := New(true, true, email, sms)

	m := alertMonitoring()
	m.EmailRecipients = nil
	m.SMSRecipients = nil

	n.Notify(context.Background(), m, model.StatusUp, model.StatusDown)

	assert.Empty(t, email.messages)
	assert.Empty(t, sms.calls)
}

func TestNotifySwallowsSendFailures(t *testing.T) {
	email := &fakeEmailSender{err: errors.New("smtp down")}
	sms := &fakeSMSSender{err: errors.New("api down")}
	n := New(true, true, email, sms)

	m := alertMonitoring()
	m.SMSRecipients = []string{"+33600000001", "+33600000002"}
	n.sleep = func(time.Duration) {}

	// Must not panic and must keep going through every recipient.
	n.Notify(context.Background(), m, model.StatusUp, model.StatusDown)

	assert.Len(t, email.messages, 1)
	assert.Len(t, sms.calls, 2)
}

func TestNewDisablesChannelWithNilSender(t *testing.T) {
	n := New(true, true, nil, nil)

	assert.False(t, n.emailEnabled)
	assert.False(t, n.smsEnabled)
}
