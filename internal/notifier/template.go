package notifier

import (
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/EpocDotFr/server-patrol/internal/model"
)

type templateData struct {
	Name            string
	URL             string
	IsDown          bool
	StatusChangedAt string
	DownReason      string
}

const emailTextSource = `Hello,

{{if .IsDown -}}
{{.Name}} seems to encounter issues and is unreachable since {{.StatusChangedAt}}.

The reason is: {{.DownReason}}
{{- else -}}
{{.Name}} is up and reachable again since {{.StatusChangedAt}}.
{{- end}}

Monitored URL: {{.URL}}

Server Patrol
`

const emailHTMLSource = `<p>Hello,</p>
{{if .IsDown -}}
<p><b>{{.Name}}</b> seems to encounter issues and is unreachable since <b>{{.StatusChangedAt}}</b>.</p>
<p>The reason is: {{.DownReason}}</p>
{{- else -}}
<p><b>{{.Name}}</b> is up and reachable again since <b>{{.StatusChangedAt}}</b>.</p>
{{- end}}
<p>Monitored URL: <a href="{{.URL}}">{{.URL}}</a></p>
<p>Server Patrol</p>
`

const smsSource = `Server Patrol: {{if .IsDown}}{{.Name}} is gone ({{.DownReason}}){{else}}{{.Name}} is back up{{end}}`

var (
	emailTextTemplate = texttemplate.Must(texttemplate.New("email_text").Parse(emailTextSource))
	emailHTMLTemplate = htmltemplate.Must(htmltemplate.New("email_html").Parse(emailHTMLSource))
	smsTemplate       = texttemplate.Must(texttemplate.New("sms").Parse(smsSource))
)

func newTemplateData(m *model.Monitoring, newStatus model.Status) templateData {
	return templateData{
		Name:            m.Name,
		URL:             m.URL,
		IsDown:          newStatus == model.StatusDown,
		StatusChangedAt: m.LastStatusChangeAt.Format(time.RFC1123),
		DownReason:      m.LastDownReason,
	}
}

// renderEmail renders the subject and both bodies of a transition email.
func renderEmail(m *model.Monitoring, newStatus model.Status) (subject, textBody, htmlBody string) {
	data := newTemplateData(m, newStatus)

	if data.IsDown {
		subject = fmt.Sprintf("%s is gone", m.Name)
	} else {
		subject = fmt.Sprintf("%s is back up", m.Name)
	}

	var text strings.Builder
	if err := emailTextTemplate.Execute(&text, data); err != nil {
		text.WriteString(subject)
	}

	var html strings.Builder
	if err := emailHTMLTemplate.Execute(&html, data); err != nil {
		html.WriteString(subject)
	}

	return subject, text.String(), html.String()
}

// renderSMS renders the short transition message sent to SMS recipients.
func renderSMS(m *model.Monitoring, newStatus model.Status) string {
	var body strings.Builder
	if err := smsTemplate.Execute(&body, newTemplateData(m, newStatus)); err != nil {
		return fmt.Sprintf("Server Patrol: %s is now %s", m.Name, newStatus)
	}
	return body.String()
}
