package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/pliu/aichat/internal/models"
	"github.com/rs/zerolog"
)

// Mailer delivers a single HTML message.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type Sender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// Secure dials TLS directly (port 465 style) instead of upgrading with STARTTLS.
	Secure bool
}

func NewSender(host string, port int, username, password, from string, secure bool) *Sender {
	return &Sender{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		Secure:   secure,
	}
}

func (s *Sender) message(to, subject, body string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", s.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.Bytes()
}

// Send delivers the message. With no host configured it only logs it, which
// keeps local development working without a relay.
func (s *Sender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if s.Host == "" {
		zerolog.Ctx(ctx).Info().
			Str("to", to).
			Str("subject", subject).
			Str("body", htmlBody).
			Msg("mock email")
		return nil
	}

	from := s.From
	if addr, err := mail.ParseAddress(s.From); err == nil {
		from = addr.Address
	}
	msg := s.message(to, subject, htmlBody)
	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))

	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}
	if !s.Secure {
		return smtp.SendMail(addr, auth, from, []string{to}, msg)
	}
	return s.sendTLS(ctx, addr, auth, from, to, msg)
}

func (s *Sender) sendTLS(ctx context.Context, addr string, auth smtp.Auth, from, to string, msg []byte) error {
	d := tls.Dialer{Config: &tls.Config{ServerName: s.Host}}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	c, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if auth != nil {
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

const (
	VerificationTemplate = "verification"
	LinkPlaceholder      = "{{link}}"
)

// DefaultVerification is seeded into the store the first time it is needed.
var DefaultVerification = models.EmailTemplate{
	Name:    VerificationTemplate,
	Subject: "Verify your Email",
	Body:    "Please click this link to verify your email: " + LinkPlaceholder,
}

// Render substitutes the first link placeholder with an anchor to link.
func Render(tmpl models.EmailTemplate, link string) (subject, body string) {
	l := html.EscapeString(link)
	anchor := `<a href="` + l + `">` + l + `</a>`
	return tmpl.Subject, strings.Replace(tmpl.Body, LinkPlaceholder, anchor, 1)
}
