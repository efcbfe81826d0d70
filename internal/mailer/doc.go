// Package mailer delivers download notices for published runs via SMTP.
//
// The default implementation opens one authenticated STARTTLS session per
// dispatch and degrades to a no-op when no SMTP host is configured, so the
// rest of the pipeline can be exercised on machines without mail access.
// All callers depend only on the Service interface.
package mailer
