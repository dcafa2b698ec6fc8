package htmldoc

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// imgStyle is forced onto every image so covers and illustrations fit
// the reading pane on small screens.
const imgStyle = "max-width: 100%; height: auto;"

// navClassTokens are class names that signal table-of-contents or
// navigation markup embedded in content documents.
var navClassTokens = map[string]bool{
	"nav":               true,
	"navigation":        true,
	"toc":               true,
	"table-of-contents": true,
}

// sanitizePolicy is the final hardening pass: it guarantees no script,
// event handler, or unexpected embed survives, while keeping the inline
// styles and lazy-loading attributes the structural pass just applied.
var sanitizePolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("style").Globally()
	p.AllowAttrs("loading").OnElements("img")
	p.AllowDataURIImages()
	return p
}()

// Sanitize cleans an HTML fragment for embedded rendering:
//
//  1. navigation markup is removed (nav elements and elements whose
//     class signals a table of contents),
//  2. script and style elements are removed (inline style attributes on
//     other elements survive),
//  3. images are forced to scale to the pane and load lazily,
//  4. paragraphs with no text content are dropped.
//
// The result is the body's inner HTML after a bluemonday pass. Sanitize
// never fails: malformed input parses permissively and yields whatever
// could be recovered. Sanitizing already-sanitized content is a no-op.
func Sanitize(fragment string) string {
	doc, err := Parse(fragment)
	if err != nil {
		return ""
	}
	body := findBody(doc)
	if body == nil {
		return ""
	}

	removeMatching(body, isNavigation)
	removeMatching(body, func(n *html.Node) bool {
		return n.DataAtom == atom.Script || n.DataAtom == atom.Style
	})

	for _, img := range collectElements(body, atom.Img) {
		setAttr(img, "style", imgStyle)
		setAttr(img, "loading", "lazy")
	}

	removeMatching(body, isEmptyParagraph)

	return sanitizePolicy.Sanitize(renderContents(body))
}

// isNavigation reports whether an element is navigation chrome: a <nav>
// landmark or any element carrying a navigation class token.
func isNavigation(n *html.Node) bool {
	if n.DataAtom == atom.Nav {
		return true
	}
	for _, token := range strings.Fields(getAttr(n, "class")) {
		if navClassTokens[strings.ToLower(token)] {
			return true
		}
	}
	return false
}

// isEmptyParagraph reports whether a paragraph has no text once trimmed.
func isEmptyParagraph(n *html.Node) bool {
	return n.DataAtom == atom.P && strings.TrimSpace(textContent(n)) == ""
}
