package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/muhammedkh45/Echoo/pkg/logger"

	"go.uber.org/zap"
)

type Mail struct {
	To      string
	Subject string
	Body    string
}

// Sink delivers one e-mail.
type Sink interface {
	Send(ctx context.Context, m Mail) error
}

// LogSink writes mails to the log instead of delivering them. It is used
// when no SMTP host is configured.
type LogSink struct {
	logger *logger.Logger
}

func NewLogSink(l *logger.Logger) *LogSink {
	if l == nil {
		l = logger.NewNop()
	}
	return &LogSink{logger: l}
}

func (s *LogSink) Send(ctx context.Context, m Mail) error {
	s.logger.InfoCtx(ctx, "mail not sent, no smtp host configured",
		zap.String("to", m.To),
		zap.String("subject", m.Subject))
	return nil
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPSink struct {
	cfg  SMTPConfig
	auth smtp.Auth
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSink(cfg SMTPConfig) *SMTPSink {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPSink{cfg: cfg, auth: auth, send: smtp.SendMail}
}

func (s *SMTPSink) Send(ctx context.Context, m Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := s.send(addr, s.auth, s.cfg.From, []string{m.To}, buildMessage(s.cfg.From, m)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", m.To, err)
	}
	return nil
}

// headerSafe strips line breaks so user text cannot inject headers.
func headerSafe(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

func buildMessage(from string, m Mail) []byte {
	var b strings.Builder
	b.WriteString("From: " + headerSafe(from) + "\r\n")
	b.WriteString("To: " + headerSafe(m.To) + "\r\n")
	b.WriteString("Subject: " + headerSafe(m.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(m.Body)
	return []byte(b.String())
}
