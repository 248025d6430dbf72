package mail

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grillazz/stuff-and-nonsense/internal/config"
)

func TestBuildUsesConfiguredFrom(t *testing.T) {
	s := New(config.SMTPConfig{Host: "smtp.internal", User: "mailer", From: "noreply@example.com"})

	from, body := s.build(Message{To: []string{"joe@example.com"}, Subject: "hi", HTML: "<p>hi</p>"})
	assert.Equal(t, "noreply@example.com", from)
	assert.Contains(t, string(body), "From: noreply@example.com\r\n")
}

func TestBuildFromOverride(t *testing.T) {
	s := New(config.SMTPConfig{Host: "smtp.internal", From: "noreply@example.com"})

	from, body := s.build(Message{From: "ops@example.com", To: []string{"joe@example.com"}})
	assert.Equal(t, "ops@example.com", from)
	assert.Contains(t, string(body), "From: ops@example.com\r\n")
}

func TestBuildFallsBackToUser(t *testing.T) {
	s := New(config.SMTPConfig{Host: "smtp.internal", User: "mailer@example.com"})

	from, _ := s.build(Message{To: []string{"joe@example.com"}})
	assert.Equal(t, "mailer@example.com", from)
}

func TestRenderBuiltinWelcome(t *testing.T) {
	s := New(config.SMTPConfig{})

	html, err := s.render("welcome.html", welcomeTpl, WelcomeData{FirstName: "Joe", Email: "joe@example.com"})
	require.NoError(t, err)
	assert.Contains(t, html, "Welcome, Joe!")
	assert.Contains(t, html, "joe@example.com")
}

func TestRenderTemplateDirOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "welcome.html"),
		[]byte("<p>Hi {{.FirstName}}, custom greeting</p>"), 0o600))

	s := New(config.SMTPConfig{Templates: dir})

	html, err := s.render("welcome.html", welcomeTpl, WelcomeData{FirstName: "Joe"})
	require.NoError(t, err)
	assert.Equal(t, "<p>Hi Joe, custom greeting</p>", html)

	// Templates absent from the directory still come from the built-ins.
	html, err = s.render("health_test.html", healthTestTpl, HealthTestData{Message: "ping"})
	require.NoError(t, err)
	assert.Contains(t, html, "ping")
}
