package mailer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

func newTestMailer(cfg Config) (*Mailer, *[]string) {
	var got []string
	m := New(cfg, zap.NewNop())
	m.deliver = func(_ context.Context, msg *mail.Msg) error {
		var buf bytes.Buffer
		if _, err := msg.WriteTo(&buf); err != nil {
			return err
		}
		got = append(got, buf.String())
		return nil
	}
	return m, &got
}

func TestSend_NotConfigured(t *testing.T) {
	m, got := newTestMailer(Config{})
	if m.Configured() {
		t.Error("empty config should not be configured")
	}
	if err := m.Send(context.Background(), Email{To: "a@b.io", Subject: "x", TextBody: "y"}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("got %v, want ErrNotConfigured", err)
	}
	if len(*got) != 0 {
		t.Error("nothing should be sent")
	}

	var nilMailer *Mailer
	if nilMailer.Configured() {
		t.Error("nil mailer should not be configured")
	}
}

func TestSend_BuildsMultipartMessage(t *testing.T) {
	m, got := newTestMailer(Config{
		Host:     "smtp.example.com",
		User:     "mailer",
		Pass:     "secret",
		From:     "noreply@orkestra.io",
		FromName: "Orkestra Ventures",
	})

	err := m.Send(context.Background(), Email{
		To:       "owner@orkestra.io",
		Subject:  "New application",
		TextBody: "plain body",
		HTMLBody: "<p>html body</p>",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(*got) != 1 {
		t.Fatalf("expected one message, got %d", len(*got))
	}
	msg := (*got)[0]
	for _, want := range []string{
		"From: \"Orkestra Ventures\" <noreply@orkestra.io>",
		"To: <owner@orkestra.io>",
		"Subject: New application",
		"Message-ID: <",
		"multipart/alternative",
		"text/plain; charset=UTF-8",
		"text/html; charset=UTF-8",
		"plain body",
		"<p>html body</p>",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestSend_SingleBody(t *testing.T) {
	m, got := newTestMailer(Config{Host: "localhost", From: "noreply@orkestra.io"})
	if err := m.Send(context.Background(), Email{To: "owner@orkestra.io", Subject: "x", HTMLBody: "<p>only html</p>"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	msg := (*got)[0]
	if strings.Contains(msg, "multipart/alternative") {
		t.Error("a single body should not be multipart")
	}
	if !strings.Contains(msg, "text/html; charset=UTF-8") {
		t.Error("expected an HTML body")
	}
}

func TestAuthAndPort(t *testing.T) {
	withUser := New(Config{Host: "smtp.example.com", User: "mailer", From: "a@b.io"}, zap.NewNop())
	if withUser.authType() != mail.SMTPAuthPlain {
		t.Errorf("with user: got %q, want PLAIN", withUser.authType())
	}
	if withUser.cfg.Port != 587 {
		t.Errorf("default port: got %d, want 587", withUser.cfg.Port)
	}

	anon := New(Config{Host: "localhost", Port: 25, From: "a@b.io"}, zap.NewNop())
	if anon.authType() != mail.SMTPAuthNoAuth {
		t.Errorf("without user: got %q, want no auth", anon.authType())
	}
	if _, err := anon.client(); err != nil {
		t.Errorf("client: %v", err)
	}
}

func TestSend_InvalidAddresses(t *testing.T) {
	m, got := newTestMailer(Config{Host: "localhost", From: "noreply@orkestra.io"})
	if err := m.Send(context.Background(), Email{Subject: "x"}); err == nil {
		t.Error("expected an error for an empty recipient")
	}
	if err := m.Send(context.Background(), Email{To: "not an address", Subject: "x", TextBody: "y"}); err == nil {
		t.Error("expected an error for a malformed recipient")
	}
	if len(*got) != 0 {
		t.Errorf("nothing should be sent, got %d", len(*got))
	}
}

func TestBuildSubmissionEmail(t *testing.T) {
	e := BuildSubmissionEmail(SubmissionEmailData{
		SiteName: "Orkestra Ventures",
		Kind:     "contact message",
		Fields: []Field{
			{Label: "Name", Value: "Omar <b>Hassan</b>"},
			{Label: "Company", Value: ""},
		},
		Message:  "Hello\n<script>alert(1)</script>",
		AdminURL: "https://orkestra.io/admin/contacts/3",
	})

	if e.Subject != "[Orkestra Ventures] New contact message" {
		t.Errorf("Subject: got %q", e.Subject)
	}
	if strings.Contains(e.HTMLBody, "<script>") {
		t.Error("HTML body must not carry script tags")
	}
	if strings.Contains(e.HTMLBody, "<b>Hassan</b>") {
		t.Error("field values must be escaped")
	}
	if strings.Contains(e.TextBody, "Company:") {
		t.Error("empty fields should be skipped")
	}
	if !strings.Contains(e.TextBody, "https://orkestra.io/admin/contacts/3") {
		t.Error("text body should link to the admin area")
	}
}
