// Package mail delivers the few messages the application sends (password resets).
package mail

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"sync"

	"github.com/oficont/oficont/internal/config"
	"github.com/oficont/oficont/internal/logging"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender returns an SMTP sender when a host is configured and a LogSender otherwise.
func NewSender(cfg config.MailConfig, log *logging.Logger) Sender {
	if cfg.Host == "" {
		return &LogSender{log: log.WithComponent("mail")}
	}
	return &SMTPSender{cfg: cfg}
}

// LogSender writes messages to the log. It is the development default.
type LogSender struct {
	log *logging.Logger
}

func NewLogSender(log *logging.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("mail not sent, no SMTP host configured",
		"to", msg.To, "subject", msg.Subject, "body", msg.Body)
	return nil
}

type SMTPSender struct {
	cfg config.MailConfig
}

func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	var a smtp.Auth
	if s.cfg.User != "" {
		a = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}
	if err := smtp.SendMail(addr, a, s.cfg.From, []string{msg.To}, Format(s.cfg.From, msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

// Format renders msg as an RFC 5322 message with CRLF line endings.
func Format(from string, msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}

// Outbox records messages in memory. Tests use it to read reset links.
type Outbox struct {
	mu   sync.Mutex
	sent []Message
}

func (o *Outbox) Send(_ context.Context, msg Message) error {
	o.mu.Lock()
	o.sent = append(o.sent, msg)
	o.mu.Unlock()
	return nil
}

func (o *Outbox) Messages() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Message(nil), o.sent...)
}
