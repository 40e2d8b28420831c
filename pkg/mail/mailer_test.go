package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/smtp"
	"strings"
	"testing"
	"time"
)

func TestNewSMTPMailerValidatesConfig(t *testing.T) {
	_, err := NewSMTPMailer(SMTPSettings{Enabled: true})
	if err == nil || !strings.Contains(err.Error(), "host is required") {
		t.Fatalf("expected host validation error, got %v", err)
	}

	mailer, err := NewSMTPMailer(SMTPSettings{Enabled: false})
	if err != nil {
		t.Fatalf("expected disabled configuration to succeed: %v", err)
	}
	if mailer == nil {
		t.Fatal("expected mailer to be returned")
	}
}

func TestSendDisabledReturnsSentinel(t *testing.T) {
	mailer, err := NewSMTPMailer(SMTPSettings{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error creating mailer: %v", err)
	}

	err = mailer.Send(context.Background(), Message{
		To:      []string{"test@example.com"},
		Subject: "Your login code",
		Body:    "482913",
	})
	if err != ErrSMTPDisabled {
		t.Fatalf("expected ErrSMTPDisabled, got %v", err)
	}
}

func TestSendDefaultTimeoutAssigned(t *testing.T) {
	mailer, err := NewSMTPMailer(SMTPSettings{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "no-reply@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error creating mailer: %v", err)
	}

	sm := mailer.(*smtpMailer)
	if sm.cfg.Timeout != 10*time.Second {
		t.Fatalf("expected default 10s timeout, got %v", sm.cfg.Timeout)
	}
}

type fakeSMTPClient struct {
	from  string
	rcpts []string
	data  bytes.Buffer
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func (f *fakeSMTPClient) Mail(from string) error            { f.from = from; return nil }
func (f *fakeSMTPClient) Rcpt(rcpt string) error            { f.rcpts = append(f.rcpts, rcpt); return nil }
func (f *fakeSMTPClient) Data() (io.WriteCloser, error)     { return nopWriteCloser{&f.data}, nil }
func (f *fakeSMTPClient) Quit() error                       { return nil }
func (f *fakeSMTPClient) Close() error                      { return nil }
func (f *fakeSMTPClient) StartTLS(*tls.Config) error        { return nil }
func (f *fakeSMTPClient) Auth(smtp.Auth) error              { return nil }
func (f *fakeSMTPClient) Extension(string) (bool, string)   { return false, "" }

func TestSendWritesFormattedMessage(t *testing.T) {
	fake := &fakeSMTPClient{}
	server, client := net.Pipe()
	t.Cleanup(func() {
		_ = server.Close()
	})

	mailer := &smtpMailer{
		cfg: SMTPSettings{
			Enabled: true,
			Host:    "smtp.example.com",
			Port:    587,
			From:    "no-reply@uiforge.dev",
		},
		dialFn: func(context.Context, SMTPSettings) (net.Conn, smtpClient, error) {
			return client, fake, nil
		},
		authFn: func(smtpClient, SMTPSettings) error { return nil },
	}

	err := mailer.Send(context.Background(), Message{
		To:      []string{"a@x.com", "a@x.com"},
		Subject: "Your UIForge login code",
		Body:    "Your verification code is: 482913\n",
	})
	if err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}

	if fake.from != "no-reply@uiforge.dev" {
		t.Fatalf("unexpected sender %q", fake.from)
	}
	if len(fake.rcpts) != 1 || fake.rcpts[0] != "a@x.com" {
		t.Fatalf("expected deduplicated recipient list, got %v", fake.rcpts)
	}
	if !strings.Contains(fake.data.String(), "482913") {
		t.Fatalf("expected code in message body, got %q", fake.data.String())
	}
}

func TestFormatMessageSanitisesSubject(t *testing.T) {
	content := formatMessage("from@example.com", []string{"to@example.com"}, "Code\r\nInjection", "Body")
	if !strings.Contains(content, "Subject: Code Injection") {
		t.Fatalf("expected sanitised subject, got %q", content)
	}
	if !strings.HasSuffix(content, "Body") {
		t.Fatalf("expected body suffix, got %q", content)
	}
}
