// Package logging provides file-based structured logging with rotation
// for csbench. Sweep runs append JSON records to ~/.csbench/logs/ so that
// long experiment batches remain auditable after the terminal scrollback
// is gone; the --debug flag raises the level and mirrors to stderr.
package logging
