package email

import (
	"bytes"
	"context"
	"testing"

	"github.com/pliu/aichat/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	subject, body := Render(DefaultVerification, "http://localhost:7860/api/auth/verify/abc")

	assert.Equal(t, "Verify your Email", subject)
	assert.Equal(t,
		`Please click this link to verify your email: <a href="http://localhost:7860/api/auth/verify/abc">http://localhost:7860/api/auth/verify/abc</a>`,
		body)
}

func TestRender_EscapesLinkAndReplacesOnce(t *testing.T) {
	tmpl := models.EmailTemplate{Subject: "s", Body: "{{link}} and {{link}}"}
	_, body := Render(tmpl, `http://x/"><script>`)

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, " and {{link}}")
}

func TestRender_NoPlaceholder(t *testing.T) {
	_, body := Render(models.EmailTemplate{Body: "plain"}, "http://x")
	assert.Equal(t, "plain", body)
}

func TestSend_MockWithoutHost(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())

	s := NewSender("", 587, "", "", "no-reply@example.com", false)
	require.NoError(t, s.Send(ctx, "a@example.com", "Hi", "<b>body</b>"))

	assert.Contains(t, buf.String(), "mock email")
	assert.Contains(t, buf.String(), "a@example.com")
}

func TestMessageHeaders(t *testing.T) {
	s := NewSender("smtp.example.com", 587, "u", "p", `"AI Agent" <no-reply@aiagent.com>`, false)
	msg := string(s.message("to@example.com", "Subject line", "<p>hi</p>"))

	assert.Contains(t, msg, "From: \"AI Agent\" <no-reply@aiagent.com>\r\n")
	assert.Contains(t, msg, "To: to@example.com\r\n")
	assert.Contains(t, msg, "Subject: Subject line\r\n")
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.True(t, bytes.HasSuffix([]byte(msg), []byte("\r\n\r\n<p>hi</p>")))
}
