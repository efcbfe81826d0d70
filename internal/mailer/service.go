package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"rundispatch/internal/config"
)

// Notice describes one completed run ready for download.
type Notice struct {
	Filename   string
	Checksum   string
	Group      string
	Recipients []string
}

// Service defines the notification surface exposed to the dispatcher.
type Service interface {
	NotifyRunReady(ctx context.Context, notice Notice) error
	Test(ctx context.Context, recipients []string) error
}

// NewService builds a mail service backed by SMTP when configured. When no
// SMTP host is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	host := strings.TrimSpace(cfg.SMTP.Host)
	if host == "" {
		return noopService{}
	}
	return &smtpService{
		addr:     net.JoinHostPort(host, strconv.Itoa(cfg.SMTP.Port)),
		host:     host,
		username: cfg.SMTP.Username,
		password: cfg.SMTP.Password,
		from:     cfg.SMTP.From,
		mail:     cfg.Mail,
	}
}

type smtpService struct {
	addr     string
	host     string
	username string
	password string
	from     string
	mail     config.Mail
}

func (s *smtpService) NotifyRunReady(ctx context.Context, notice Notice) error {
	if len(notice.Recipients) == 0 {
		return fmt.Errorf("no recipients for %s", notice.Filename)
	}
	body := BuildMessage(notice, s.mail)
	message := formatMessage(s.from, notice.Recipients, "Sequencing run finished", body)
	return s.send(ctx, notice.Recipients, message)
}

func (s *smtpService) Test(ctx context.Context, recipients []string) error {
	if len(recipients) == 0 {
		recipients = s.mail.DefaultRecipients
	}
	if len(recipients) == 0 {
		return fmt.Errorf("no test recipients configured")
	}
	message := formatMessage(s.from, recipients, "rundispatch test", "SMTP delivery test.\n")
	return s.send(ctx, recipients, message)
}

// send performs one complete SMTP session: dial, STARTTLS, authenticate,
// deliver, quit. There is no retry; failures propagate to the operator.
func (s *smtpService) send(ctx context.Context, recipients []string, message []byte) error {
	dialer := net.Dialer{Timeout: 30 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", s.addr, err)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if s.username != "" {
		auth := smtp.PlainAuth("", s.username, s.password, s.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	fromAddr, err := envelopeAddress(s.from)
	if err != nil {
		return err
	}
	if err := client.Mail(fromAddr); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, recipient := range recipients {
		if err := client.Rcpt(recipient); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", recipient, err)
		}
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := writer.Write(message); err != nil {
		_ = writer.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("smtp finish: %w", err)
	}

	return client.Quit()
}

type noopService struct{}

func (noopService) NotifyRunReady(context.Context, Notice) error { return nil }

func (noopService) Test(context.Context, []string) error { return nil }
