package email

import (
	"context"
	"strings"
	"testing"

	"turno/internal/platform/config"
)

func TestNewDisabledReturnsNoop(t *testing.T) {
	m := New(config.Config{EmailEnabled: false})
	if err := m.Send(context.Background(), "a@b.it", "c@d.it", "x", "y"); err != nil {
		t.Fatalf("noop mailer returned error: %v", err)
	}
}

func TestBuildMessageEncodesItalianSubject(t *testing.T) {
	msg := string(buildMessage("turno@ristorante.it", "mario@ristorante.it", "Richiesta approvata già", "corpo"))

	if !strings.Contains(msg, "From: Turno <turno@ristorante.it>\r\n") {
		t.Fatalf("missing display name in From header:\n%s", msg)
	}
	if strings.Contains(msg, "Subject: Richiesta approvata già") {
		t.Fatalf("accented subject left unencoded:\n%s", msg)
	}
	if !strings.Contains(msg, "Subject: =?utf-8?q?") {
		t.Fatalf("subject not Q-encoded:\n%s", msg)
	}
	if !strings.HasSuffix(msg, "\r\n\r\ncorpo") {
		t.Fatalf("body not separated from headers:\n%s", msg)
	}
}
