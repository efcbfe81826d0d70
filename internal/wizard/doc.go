// Package wizard implements the interactive dispatch prompt shown when the
// dispatch command runs on a terminal without flags.
package wizard
