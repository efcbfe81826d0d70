// Package preflight verifies the environment before a dispatch: scan roots
// readable, public and state directories writable, SMTP endpoint reachable.
package preflight
