// Package config loads, normalizes, and validates rundispatch configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// RUNDISPATCH_SMTP_PASSWORD. The Config type centralizes every knob the CLI
// needs: the incoming scan roots, the public download directory, SMTP
// transport credentials, default recipients, and retention windows.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
