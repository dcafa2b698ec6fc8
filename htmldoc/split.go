package htmldoc

import (
	"strings"

	"golang.org/x/net/html"
)

// untitledFallback is the synthesized title for sections whose bounding
// heading has no text.
const untitledFallback = "Untitled Section"

// SplitByHeadings partitions a document's body into one fragment per
// heading: fragment i holds everything after heading i and before
// heading i+1 (both boundaries exclusive); the last fragment runs to the
// end of the body. Content before the first heading is not part of any
// fragment.
//
// The heading list must come from FindHeadings on the same document and
// must be non-empty; documents without headings take the degenerate
// whole-body path in the assembler instead.
func SplitByHeadings(doc *html.Node, headings []Heading) []Fragment {
	if len(headings) == 0 {
		return nil
	}

	contents := partition(doc, headings, false)

	frags := make([]Fragment, len(headings))
	for i, h := range headings {
		title := h.Text
		if title == "" {
			title = untitledFallback
		}
		frags[i] = Fragment{Title: title, Content: contents[i], Level: h.Level}
	}
	return frags
}

// partition splits the body into len(headings) serialized segments at
// the heading boundaries. Heading elements themselves belong to no
// segment. When includePreamble is true, content before the first
// heading is prepended to segment 0; otherwise it is discarded.
//
// Container elements that hold a heading somewhere beneath them are
// descended into rather than emitted whole, so a boundary inside a
// wrapper div still splits correctly. Document order is the pre-order
// walk; it is authoritative regardless of heading levels.
func partition(doc *html.Node, headings []Heading, includePreamble bool) []string {
	body := findBody(doc)
	if body == nil {
		return make([]string, len(headings))
	}

	boundary := make(map[*html.Node]int, len(headings))
	for i, h := range headings {
		boundary[h.Node] = i
	}

	segs := make([]strings.Builder, len(headings))
	cur := -1
	if includePreamble {
		cur = 0
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if i, ok := boundary[c]; ok {
				cur = i
				continue
			}
			if containsBoundary(c, boundary) {
				walk(c)
				continue
			}
			if cur >= 0 {
				renderTo(&segs[cur], c)
			}
		}
	}
	walk(body)

	contents := make([]string, len(headings))
	for i := range segs {
		contents[i] = segs[i].String()
	}
	return contents
}

// containsBoundary reports whether any boundary heading lives in the
// subtree rooted at n.
func containsBoundary(n *html.Node, boundary map[*html.Node]int) bool {
	if _, ok := boundary[n]; ok {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if containsBoundary(c, boundary) {
			return true
		}
	}
	return false
}
