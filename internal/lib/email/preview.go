package email

// PreviewData contains sample template data for local preview.
//
//	PreviewData["button"]["url"] == "https://example.com/welcome"
var PreviewData = map[string]map[string]string{
	string(TemplateButton): {
		"url": "https://example.com/welcome",
	},
}

// Preview renders t to HTML without sending anything.
//
// A nil data map falls back to PreviewData for the template.
func Preview(t Template, data map[string]string) (string, error) {
	if data == nil {
		data = PreviewData[string(t)]
	}

	html, _, err := Render(t, data)
	return html, err
}
