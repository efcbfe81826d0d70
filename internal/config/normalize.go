package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSMTP()
	c.normalizeMail()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	roots := make([]string, 0, len(c.Paths.ScanRoots))
	for i, root := range c.Paths.ScanRoots {
		trimmed := strings.TrimSpace(root)
		if trimmed == "" {
			continue
		}
		if trimmed, err = expandPath(trimmed); err != nil {
			return fmt.Errorf("paths.scan_roots[%d]: %w", i, err)
		}
		roots = append(roots, trimmed)
	}
	c.Paths.ScanRoots = roots

	if c.Paths.PublicDir, err = expandPath(c.Paths.PublicDir); err != nil {
		return fmt.Errorf("paths.public_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSMTP() {
	c.SMTP.Host = strings.TrimSpace(c.SMTP.Host)
	c.SMTP.Username = strings.TrimSpace(c.SMTP.Username)
	c.SMTP.From = strings.TrimSpace(c.SMTP.From)
	if c.SMTP.Password == "" {
		if value, ok := os.LookupEnv("RUNDISPATCH_SMTP_PASSWORD"); ok {
			c.SMTP.Password = value
		}
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = defaultSMTPPort
	}
}

func (c *Config) normalizeMail() {
	recipients := make([]string, 0, len(c.Mail.DefaultRecipients))
	for _, recipient := range c.Mail.DefaultRecipients {
		if trimmed := strings.TrimSpace(recipient); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}
	c.Mail.DefaultRecipients = recipients
	c.Mail.DownloadBaseURL = strings.TrimRight(strings.TrimSpace(c.Mail.DownloadBaseURL), "/")
	if strings.TrimSpace(c.Mail.LoginUser) == "" {
		c.Mail.LoginUser = defaultLoginUser
	}
	if strings.TrimSpace(c.Mail.LoginPassword) == "" {
		c.Mail.LoginPassword = defaultLoginPassword
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
