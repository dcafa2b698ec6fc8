package htmldoc

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse parses an HTML fragment or document permissively, the way a
// browser would. The only error source is the underlying reader, so for
// string input it effectively never fails.
func Parse(content string) (*html.Node, error) {
	return html.Parse(strings.NewReader(content))
}

// findBody returns the body element of a parsed document. html.Parse
// always synthesizes one, but callers still guard against nil.
func findBody(doc *html.Node) *html.Node {
	if doc.Type == html.ElementNode && doc.DataAtom == atom.Body {
		return doc
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

// getAttr returns the value of an attribute on a node, or "" if absent.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// setAttr sets or replaces an attribute on a node.
func setAttr(n *html.Node, key, val string) {
	for i, attr := range n.Attr {
		if attr.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// textContent returns the concatenated text of a subtree.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// renderTo serializes a node into sb. Render only fails on writer
// errors, which strings.Builder never produces.
func renderTo(sb *strings.Builder, n *html.Node) {
	_ = html.Render(sb, n)
}

// renderContents serializes the children of a node, i.e. the innerHTML.
func renderContents(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderTo(&sb, c)
	}
	return sb.String()
}

// removeMatching removes every node in the subtree for which match
// returns true. Matched nodes are removed whole; their descendants are
// not inspected.
func removeMatching(root *html.Node, match func(*html.Node) bool) {
	var doomed []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && match(c) {
				doomed = append(doomed, c)
				continue
			}
			walk(c)
		}
	}
	walk(root)
	for _, n := range doomed {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

// collectElements returns all elements with the given atom, in document
// order.
func collectElements(root *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == a {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}
