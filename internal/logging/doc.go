// Package logging builds slog loggers for the CLI.
//
// Output goes to stdout and, when a log directory is configured, to a
// dated rundispatch-YYYYMMDD.log inside it; files older than the
// configured retention are pruned on startup. The console format favours
// short, readable lines for interactive use; the json format suits
// cron-driven runs whose output lands in a collector.
package logging
