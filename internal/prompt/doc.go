// Package prompt implements the user notification port: popups, yes/no
// questions, and Retry/Cancel decisions. Terminal talks to a TTY via stdin and
// stderr; Logging answers conservatively for unattended runs.
package prompt
