package config

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSMTP(); err != nil {
		return err
	}
	if err := c.validateMail(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if len(c.Paths.ScanRoots) == 0 {
		return errors.New("paths.scan_roots must list at least one incoming directory")
	}
	if strings.TrimSpace(c.Paths.PublicDir) == "" {
		return errors.New("paths.public_dir must be set")
	}
	return nil
}

func (c *Config) validateSMTP() error {
	if c.SMTP.Port < 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("smtp.port must be between 0 and 65535, got %d", c.SMTP.Port)
	}
	if c.SMTP.Host != "" {
		if c.SMTP.From == "" {
			return errors.New("smtp.from must be set when smtp.host is configured")
		}
		if _, err := mail.ParseAddress(c.SMTP.From); err != nil {
			return fmt.Errorf("smtp.from is not a valid address: %w", err)
		}
	}
	return nil
}

func (c *Config) validateMail() error {
	for _, recipient := range c.Mail.DefaultRecipients {
		if _, err := mail.ParseAddress(recipient); err != nil {
			return fmt.Errorf("mail.default_recipients contains invalid address %q: %w", recipient, err)
		}
	}
	if c.Mail.DownloadBaseURL != "" {
		parsed, err := url.Parse(c.Mail.DownloadBaseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("mail.download_base_url must be an absolute URL, got %q", c.Mail.DownloadBaseURL)
		}
	}
	if c.Mail.RetentionDays < 0 {
		return errors.New("mail.retention_days must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
