package atlassian

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const defaultExcerptLength = 200

// Excerpt reduces an HTML fragment to a plain-text preview of at most
// maxLength characters, cut on a word boundary.
func Excerpt(htmlContent string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = defaultExcerptLength
	}

	text := htmlContent
	if node, err := html.Parse(strings.NewReader(htmlContent)); err == nil {
		text = extractText(node)
	}
	text = strings.Join(strings.Fields(text), " ")

	if len(text) <= maxLength {
		return text
	}

	// Back up to a rune start so the cut never lands mid-rune.
	end := maxLength
	for end > 0 && !utf8.RuneStart(text[end]) {
		end--
	}
	cut := text[:end]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

// extractText gets all text content from an HTML node and its children
func extractText(node *html.Node) string {
	var text strings.Builder

	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
			text.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}

	traverse(node)
	return strings.TrimSpace(text.String())
}
