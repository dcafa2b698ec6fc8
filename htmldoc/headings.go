package htmldoc

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FindHeadings returns every h1-h3 element in the document, in document
// order (pre-order tree position, never grouped or sorted by level).
// Headings with empty text are included; title fallback is the caller's
// concern.
func FindHeadings(doc *html.Node) []Heading {
	var headings []Heading
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n); level > 0 {
				headings = append(headings, Heading{
					Level: level,
					Text:  strings.TrimSpace(textContent(n)),
					Node:  n,
				})
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return headings
}

// headingLevel returns 1-3 for h1-h3 elements and 0 for everything else.
func headingLevel(n *html.Node) int {
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	}
	return 0
}
