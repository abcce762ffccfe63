// Package cli provides shared helpers for the gateway command:
// typed command errors, shutdown signal handling, and output
// formatting for subcommands that print query results.
package cli
