package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"path/filepath"
	"strings"

	"github.com/grillazz/stuff-and-nonsense/internal/config"
)

// Message is a single email to send. From overrides the configured sender
// address when set.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Sender sends emails over SMTP with PLAIN auth. Built-in templates can be
// shadowed by .html files in the configured templates directory.
type Sender struct {
	cfg       config.SMTPConfig
	overrides *template.Template
}

// New builds a sender. A missing or unreadable templates directory falls
// back to the built-in templates.
func New(cfg config.SMTPConfig) *Sender {
	s := &Sender{cfg: cfg}
	if cfg.Templates != "" {
		if t, err := template.ParseGlob(filepath.Join(cfg.Templates, "*.html")); err == nil {
			s.overrides = t
		}
	}
	return s
}

// Enabled reports whether a mail host is configured.
func (s *Sender) Enabled() bool {
	return s.cfg.Host != ""
}

// build assembles the envelope sender and MIME body for a message.
func (s *Sender) build(msg Message) (string, []byte) {
	from := msg.From
	if from == "" {
		from = s.cfg.From
	}
	if from == "" {
		from = s.cfg.User
	}

	var body bytes.Buffer
	body.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&body, "From: %s\r\n", from)
	fmt.Fprintf(&body, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&body, "Subject: %s\r\n", msg.Subject)
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)
	return from, body.Bytes()
}

// Send dispatches an email. A sender without a configured host is a no-op.
func (s *Sender) Send(msg Message) error {
	if !s.Enabled() {
		return nil
	}

	port := s.cfg.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, port)

	from, body := s.build(msg)
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	return smtp.SendMail(addr, auth, from, msg.To, body)
}

const welcomeTpl = `<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h2 style="color:#333">Welcome, {{.FirstName}}!</h2>
  <p>Your account <strong>{{.Email}}</strong> is ready.</p>
  <p style="color:#999;font-size:12px">If this wasn't you, please ignore this email.</p>
</div>
</body>
</html>`

const healthTestTpl = `<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h2 style="color:#333">Mail delivery check</h2>
  <p>{{.Message}}</p>
</div>
</body>
</html>`

// WelcomeData is the data for new-account welcome emails.
type WelcomeData struct {
	FirstName string
	Email     string
}

// HealthTestData is the data for the mail delivery check.
type HealthTestData struct {
	Message string
}

// render executes the named override template when one is loaded, falling
// back to the built-in otherwise.
func (s *Sender) render(name, builtin string, data interface{}) (string, error) {
	var tpl *template.Template
	if s.overrides != nil {
		tpl = s.overrides.Lookup(name)
	}
	if tpl == nil {
		var err error
		tpl, err = template.New(name).Parse(builtin)
		if err != nil {
			return "", err
		}
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendWelcome sends an account welcome email to a newly registered user.
func (s *Sender) SendWelcome(to string, data WelcomeData) error {
	html, err := s.render("welcome.html", welcomeTpl, data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: "Welcome aboard",
		HTML:    html,
	})
}

// SendHealthTest sends a delivery-check email used by the health endpoint.
// An empty from keeps the configured sender address.
func (s *Sender) SendHealthTest(from string, to []string, subject string, data HealthTestData) error {
	if strings.TrimSpace(data.Message) == "" {
		data.Message = "SMTP is reachable and credentials are accepted."
	}
	html, err := s.render("health_test.html", healthTestTpl, data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		From:    from,
		To:      to,
		Subject: subject,
		HTML:    html,
	})
}
