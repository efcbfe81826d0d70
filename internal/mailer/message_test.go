package mailer

import (
	"strings"
	"testing"

	"rundispatch/internal/config"
)

func TestBuildMessageContents(t *testing.T) {
	mailCfg := config.Mail{
		DownloadBaseURL: "https://downloads.example.org/public",
		LoginUser:       "public",
		LoginPassword:   "public",
		RetentionDays:   14,
	}
	notice := Notice{
		Filename: "210525_AG_stiewe.tar.gz",
		Checksum: "abc123",
		Group:    "stiewe lab",
	}

	body := BuildMessage(notice, mailCfg)
	for _, want := range []string{
		"https://downloads.example.org/public/210525_AG_stiewe.tar.gz",
		"md5sum=abc123",
		"User=public",
		"password=public",
		"expire in 14 days",
		"AG Stiewe Lab",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("message missing %q:\n%s", want, body)
		}
	}
}

func TestBuildMessageWithoutBaseURLUsesFilename(t *testing.T) {
	body := BuildMessage(Notice{Filename: "run.tar.gz"}, config.Mail{RetentionDays: 14})
	if !strings.Contains(body, "run.tar.gz") {
		t.Fatalf("message missing filename:\n%s", body)
	}
}

func TestFormatMessageHeaders(t *testing.T) {
	msg := string(formatMessage(
		"Core Facility <seq@example.org>",
		[]string{"a@example.org", "b@example.org"},
		"Sequencing run finished",
		"body\n",
	))
	for _, want := range []string{
		"From: Core Facility <seq@example.org>\r\n",
		"To: a@example.org,b@example.org\r\n",
		"Subject: Sequencing run finished\r\n",
		"Content-Type: text/plain; charset=utf-8\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing header %q:\n%s", want, msg)
		}
	}
}

func TestEnvelopeAddress(t *testing.T) {
	got, err := envelopeAddress("Core Facility <seq@example.org>")
	if err != nil {
		t.Fatalf("envelopeAddress returned error: %v", err)
	}
	if got != "seq@example.org" {
		t.Fatalf("envelopeAddress = %q", got)
	}
	if _, err := envelopeAddress("not-an-address"); err == nil {
		t.Fatal("expected error for malformed sender")
	}
}

func TestValidateRecipients(t *testing.T) {
	if err := ValidateRecipients([]string{"a@example.org", "Named <b@example.org>"}); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	err := ValidateRecipients([]string{"a@example.org", "nope", "also nope"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "nope") {
		t.Fatalf("expected offending address in error, got %v", err)
	}
}

func TestSplitRecipients(t *testing.T) {
	got := SplitRecipients(" a@example.org, b@example.org ,, ")
	if len(got) != 2 || got[0] != "a@example.org" || got[1] != "b@example.org" {
		t.Fatalf("SplitRecipients = %v", got)
	}
}

func TestNewServiceReturnsNoopWithoutHost(t *testing.T) {
	cfg := config.Default()
	svc := NewService(&cfg)
	if _, ok := svc.(noopService); !ok {
		t.Fatalf("expected noop service, got %T", svc)
	}
}
