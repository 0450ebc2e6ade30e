package email

import (
	"slices"

	"github.com/deppfellow/go-mailer/internal/emails"
	"github.com/pkg/errors"
)

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateButton is the single call-to-action button email
	// (internal/emails). Data keys: "url".
	TemplateButton Template = "button"
)

// ErrUnknownTemplate is returned when a Template has no registered renderer.
var ErrUnknownTemplate = errors.New("unknown email template")

// templateDef binds a template to its default subject and renderer.
type templateDef struct {
	subject string
	render  func(data map[string]string) (html, text string)
}

var templates = map[Template]templateDef{
	TemplateButton: {
		subject: "You have a new link",
		render: func(data map[string]string) (string, string) {
			p := emails.Props{URL: data["url"]}
			return emails.RenderString(p), emails.PlainText(p)
		},
	},
}

// Templates lists the registered templates in name order.
func Templates() []Template {
	out := make([]Template, 0, len(templates))
	for t := range templates {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Valid reports whether t has a renderer.
func (t Template) Valid() bool {
	_, ok := templates[t]
	return ok
}

// DefaultSubject returns the subject used when the caller does not pass one.
func (t Template) DefaultSubject() string {
	return templates[t].subject
}

// Render renders t with data into its HTML and plain text parts.
//
// Missing data keys render as empty strings; templates never fail on input.
func Render(t Template, data map[string]string) (html, text string, err error) {
	def, ok := templates[t]
	if !ok {
		return "", "", errors.Wrapf(ErrUnknownTemplate, "template %q", t)
	}

	html, text = def.render(data)
	return html, text, nil
}
