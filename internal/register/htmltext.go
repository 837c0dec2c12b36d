package register

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// blockTags end a run of inline text when flattening; a newline is emitted
// after each so rows and paragraphs stay on their own lines.
var blockTags = map[string]bool{
	"br": true, "div": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "li": true, "p": true,
	"table": true, "td": true, "th": true, "tr": true,
}

// HTMLToText flattens a rendered HTML document into plain text suitable for
// the extraction grammar. It is a separate step from extraction so the DOM
// library can be swapped without touching the grammar.
func HTMLToText(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript").Remove()

	var buf bytes.Buffer
	for _, n := range doc.Selection.Nodes {
		flattenNode(n, &buf)
	}
	return buf.String(), nil
}

func flattenNode(n *html.Node, buf *bytes.Buffer) {
	if n == nil {
		return
	}
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
		buf.WriteByte(' ')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		flattenNode(c, buf)
	}
	if n.Type == html.ElementNode && blockTags[n.Data] {
		buf.WriteByte('\n')
	}
}
