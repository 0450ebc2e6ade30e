// Package lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It currently holds the email client (lib/email), which renders the
// templates from internal/emails and hands them to the configured mail
// provider (Resend, SMTP or the log sender used in local development).
package lib
