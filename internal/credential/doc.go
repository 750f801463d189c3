// Package credential fetches secret payloads from an external credential
// command such as `rbw get`.
//
// The credential command is a black box: it is given the secret identifier
// as its last argument, prints the secret to stdout, and prints a diagnostic
// to stderr and exits non-zero on failure. Nothing is retried.
package credential
