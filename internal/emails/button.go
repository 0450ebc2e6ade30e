package emails

import (
	"bytes"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// ButtonLabel is the visible text of the call-to-action button.
	ButtonLabel = "Click me"

	// buttonStyle is the inline style of the <a> element.
	//
	// The first half is the reset most mail clients need for an anchor to
	// look like a button (inline-block, no underline). The second half is
	// the fixed look of this template: black background, white text,
	// 12px/20px padding.
	buttonStyle = "line-height:100%;text-decoration:none;display:inline-block;max-width:100%;" +
		"mso-padding-alt:0px;background:#000;color:#fff;padding:12px 20px 12px 20px"

	// labelStyle keeps the label vertically centred in Outlook.
	labelStyle = "max-width:100%;display:inline-block;line-height:120%;mso-padding-alt:0px;mso-text-raise:9px"
)

// XHTML 1.0 Transitional is what most email tooling emits; some clients
// fall back to quirks mode without it.
const (
	doctypePublic = "-//W3C//DTD XHTML 1.0 Transitional//EN"
	doctypeSystem = "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd"
)

// Props is the render input of the button email.
//
// URL is the destination of the button. It is used as-is: no validation,
// no normalisation. An empty URL renders an empty href.
type Props struct {
	URL string `json:"url"`
}

// Email builds the document tree of the button email.
//
// The returned tree is:
//
//	<!DOCTYPE html PUBLIC ...>
//	<html lang="en" dir="ltr">
//	  <head><meta http-equiv="Content-Type" content="text/html; charset=UTF-8"></head>
//	  <body>
//	    <a href="{URL}" style="..." target="_blank"><span style="...">Click me</span></a>
//	  </body>
//	</html>
//
// The tree always contains exactly one <a> element, whatever the URL is.
func Email(p Props) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}

	doc.AppendChild(&html.Node{
		Type: html.DoctypeNode,
		Data: "html",
		Attr: []html.Attribute{
			{Key: "public", Val: doctypePublic},
			{Key: "system", Val: doctypeSystem},
		},
	})

	root := element(atom.Html,
		html.Attribute{Key: "lang", Val: "en"},
		html.Attribute{Key: "dir", Val: "ltr"},
	)
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta,
		html.Attribute{Key: "http-equiv", Val: "Content-Type"},
		html.Attribute{Key: "content", Val: "text/html; charset=UTF-8"},
	))
	root.AppendChild(head)

	body := element(atom.Body)
	body.AppendChild(button(p.URL, ButtonLabel))
	root.AppendChild(body)

	return doc
}

// button builds the single call-to-action anchor.
func button(href, label string) *html.Node {
	a := element(atom.A,
		html.Attribute{Key: "href", Val: href},
		html.Attribute{Key: "style", Val: buttonStyle},
		html.Attribute{Key: "target", Val: "_blank"},
	)

	span := element(atom.Span, html.Attribute{Key: "style", Val: labelStyle})
	span.AppendChild(&html.Node{Type: html.TextNode, Data: label})
	a.AppendChild(span)

	return a
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

// Render writes the HTML markup of the button email to w.
//
// The only errors come from w itself.
func Render(w io.Writer, p Props) error {
	return html.Render(w, Email(p))
}

// RenderString renders the button email into a string.
//
// Writing into a bytes.Buffer cannot fail, so this never returns an error
// and is safe to call with any props, including an empty URL.
func RenderString(p Props) string {
	var buf bytes.Buffer
	_ = Render(&buf, p)
	return buf.String()
}

// PlainText renders the text/plain alternative of the button email.
func PlainText(p Props) string {
	return ButtonLabel + ": " + p.URL + "\n"
}
