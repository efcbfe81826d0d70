package mailer

import (
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"rundispatch/internal/config"
)

var groupCaser = cases.Title(language.Und, cases.NoLower)

// BuildMessage renders the plain-text body of a download notice.
func BuildMessage(notice Notice, mailCfg config.Mail) string {
	url := notice.Filename
	if mailCfg.DownloadBaseURL != "" {
		url = mailCfg.DownloadBaseURL + "/" + notice.Filename
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi, a new sequencing run has been completed for AG %s.\n\n", groupCaser.String(notice.Group))
	fmt.Fprintf(&b, "You can download the data here:\n\n%s\n\n", url)
	fmt.Fprintf(&b, "md5sum=%s\n\n", notice.Checksum)
	fmt.Fprintf(&b, "Login credentials are:\nUser=%s\npassword=%s\n\n", mailCfg.LoginUser, mailCfg.LoginPassword)
	fmt.Fprintf(&b, "This link will expire in %d days.\n\nBest of luck!\n", mailCfg.RetentionDays)
	return b.String()
}

// formatMessage assembles the full RFC 5322 message.
func formatMessage(from string, recipients []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(recipients, ","))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}

// envelopeAddress extracts the bare address from a possibly display-named
// sender for the SMTP envelope.
func envelopeAddress(from string) (string, error) {
	parsed, err := mail.ParseAddress(from)
	if err != nil {
		return "", fmt.Errorf("parse sender %q: %w", from, err)
	}
	return parsed.Address, nil
}

// ValidateRecipients checks every address and reports all invalid ones so
// the interactive prompt can ask for corrections in one pass.
func ValidateRecipients(recipients []string) error {
	var invalid []string
	for _, recipient := range recipients {
		trimmed := strings.TrimSpace(recipient)
		if trimmed == "" {
			invalid = append(invalid, recipient)
			continue
		}
		if _, err := mail.ParseAddress(trimmed); err != nil {
			invalid = append(invalid, trimmed)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("invalid recipient address(es): %s", strings.Join(invalid, ", "))
	}
	return nil
}

// SplitRecipients turns comma-separated prompt input into a trimmed list.
func SplitRecipients(input string) []string {
	parts := strings.Split(input, ",")
	recipients := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}
	return recipients
}
