// Package emails contains the transactional email templates.
//
// Templates are plain Go functions: they take a props struct and build a
// golang.org/x/net/html node tree. Rendering that tree with html.Render
// produces the email-safe markup handed to the mail providers, so escaping
// of props (URLs, names, etc.) is done by the html package and never by hand.
//
// Every template here is pure: same props in, same markup out, no I/O.
package emails
