package htmldoc

import "golang.org/x/net/html"

// maxHeadingLevel caps structural depth; h4-h6 never define section
// boundaries.
const maxHeadingLevel = 3

// Heading is a structural heading (h1-h3) located in a document,
// in document order.
type Heading struct {
	Level int    // 1-3
	Text  string // trimmed text content, may be empty
	Node  *html.Node
}

// Fragment is a contiguous slice of document content produced by
// splitting on heading boundaries.
type Fragment struct {
	Title   string // heading text; placeholder when the heading was empty
	Content string // serialized HTML between the bounding headings
	Level   int    // heading level of the bounding heading
}
