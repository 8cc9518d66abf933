package collect

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"golang.org/x/net/html"
)

// htmlConverter strips markup from whatever a feed's <description>/<content>
// field carries (RSS/Atom frequently embed full HTML there) down to Markdown
// text, so downstream anchor extraction and classification never trip over
// tags. Markdown syntax (emphasis markers, link targets) stays in the text.
var htmlConverter = converter.NewConverter(
	converter.WithPlugins(base.NewBasePlugin(), commonmark.NewCommonmarkPlugin()),
)

// cleanContent converts raw to Markdown text when it looks like markup,
// leaving already-plain content untouched.
func cleanContent(raw string) string {
	if !looksLikeHTML(raw) {
		return raw
	}
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return raw
	}
	rendered, err := htmlConverter.ConvertNode(doc)
	if err != nil {
		return raw
	}
	return strings.TrimSpace(string(rendered))
}

func looksLikeHTML(s string) bool {
	return strings.Contains(s, "</") || strings.Contains(s, "/>") || strings.Contains(s, "<p>") || strings.Contains(s, "<br")
}
