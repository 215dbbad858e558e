package mail

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/oficont/oficont/internal/config"
	"github.com/oficont/oficont/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSender_PicksByHost(t *testing.T) {
	log := logging.New(logging.Config{Output: &bytes.Buffer{}})
	_, isLog := NewSender(config.MailConfig{}, log).(*LogSender)
	assert.True(t, isLog)
	_, isSMTP := NewSender(config.MailConfig{Host: "smtp.example.com", Port: 587}, log).(*SMTPSender)
	assert.True(t, isSMTP)
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(logging.New(logging.Config{Output: &buf, Component: "mail"}))
	require.NoError(t, s.Send(context.Background(), Message{To: "ana@oficont.gt", Subject: "Hola", Body: "link"}))
	assert.Contains(t, buf.String(), "ana@oficont.gt")
}

func TestFormat(t *testing.T) {
	raw := string(Format("no-reply@oficont.gt", Message{To: "a@b.gt", Subject: "Asunto", Body: "uno\ndos"}))
	assert.True(t, strings.HasPrefix(raw, "From: no-reply@oficont.gt\r\n"))
	assert.Contains(t, raw, "Subject: Asunto\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nuno\r\ndos"))
}

func TestOutbox(t *testing.T) {
	var o Outbox
	_ = o.Send(context.Background(), Message{To: "x@y.gt"})
	require.Len(t, o.Messages(), 1)
}
