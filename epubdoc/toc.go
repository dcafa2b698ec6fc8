package epubdoc

import (
	"encoding/xml"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TableOfContents returns the package's navigation tree, or nil when
// the package declares none (or declares one that cannot be parsed).
// EPUB 3 navigation documents are preferred over EPUB 2 NCX. The
// result is cached; a nil table of contents is cached too.
func (r *Reader) TableOfContents() *TableOfContents {
	if r.tocSet {
		return r.toc
	}
	r.tocSet = true

	if toc := r.parseNavDocument(); toc != nil {
		r.toc = toc
		return r.toc
	}
	if toc := r.parseNCX(); toc != nil {
		r.toc = toc
		return r.toc
	}
	return nil
}

// parseNavDocument parses the EPUB 3 navigation document, identified
// by the "nav" manifest property.
func (r *Reader) parseNavDocument() *TableOfContents {
	var navItem *ManifestItem
	for _, item := range r.pkg.Manifest {
		for _, p := range item.Properties {
			if p == "nav" {
				it := item
				navItem = &it
				break
			}
		}
		if navItem != nil {
			break
		}
	}
	if navItem == nil {
		return nil
	}

	data, err := r.readFile(r.resolveHref(navItem.Href))
	if err != nil {
		r.logger.Debug("navigation document unreadable", "href", navItem.Href, "error", err)
		return nil
	}

	doc, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return nil
	}

	nav := findTOCNav(doc)
	if nav == nil {
		return nil
	}

	toc := &TableOfContents{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Ol, atom.Ul:
				toc.Entries = navListEntries(n)
				return
			case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				if toc.Title == "" {
					toc.Title = strings.TrimSpace(nodeText(n))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(nav)

	if len(toc.Entries) == 0 {
		return nil
	}
	return toc
}

// findTOCNav locates the <nav> carrying epub:type="toc", falling back
// to the first <nav> element when none is typed.
func findTOCNav(doc *html.Node) *html.Node {
	var first, typed *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if typed != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Nav {
			if first == nil {
				first = n
			}
			for _, a := range n.Attr {
				if a.Key == "epub:type" && strings.Contains(a.Val, "toc") {
					typed = n
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if typed != nil {
		return typed
	}
	return first
}

// navListEntries converts an <ol>/<ul> into navigation entries. Each
// <li> contributes the label and href of its <a> plus the entries of
// any nested list.
func navListEntries(list *html.Node) []TOCEntry {
	var entries []TOCEntry
	for li := list.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.DataAtom != atom.Li {
			continue
		}
		var entry TOCEntry
		for c := li.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.A:
				if entry.Title == "" {
					entry.Title = strings.TrimSpace(nodeText(c))
					for _, a := range c.Attr {
						if a.Key == "href" {
							entry.Href = a.Val
						}
					}
				}
			case atom.Span:
				if entry.Title == "" {
					entry.Title = strings.TrimSpace(nodeText(c))
				}
			case atom.Ol, atom.Ul:
				entry.Children = append(entry.Children, navListEntries(c)...)
			}
		}
		if entry.Title != "" || entry.Href != "" || len(entry.Children) > 0 {
			entries = append(entries, entry)
		}
	}
	return entries
}

func nodeText(n *html.Node) string {
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

// ncxDocument mirrors the EPUB 2 NCX file.
type ncxDocument struct {
	XMLName xml.Name `xml:"ncx"`
	Title   struct {
		Text string `xml:"text"`
	} `xml:"docTitle"`
	NavMap struct {
		Points []ncxNavPoint `xml:"navPoint"`
	} `xml:"navMap"`
}

type ncxNavPoint struct {
	Label struct {
		Text string `xml:"text"`
	} `xml:"navLabel"`
	Content struct {
		Src string `xml:"src,attr"`
	} `xml:"content"`
	Children []ncxNavPoint `xml:"navPoint"`
}

// parseNCX parses the EPUB 2 NCX table of contents. The NCX item is
// found by media type; many EPUB 3 packages still carry one for
// backwards compatibility.
func (r *Reader) parseNCX() *TableOfContents {
	var ncxItem *ManifestItem
	for _, item := range r.pkg.Manifest {
		if item.MediaType == "application/x-dtbncx+xml" {
			it := item
			ncxItem = &it
			break
		}
	}
	if ncxItem == nil {
		return nil
	}

	data, err := r.readFile(r.resolveHref(ncxItem.Href))
	if err != nil {
		r.logger.Debug("ncx unreadable", "href", ncxItem.Href, "error", err)
		return nil
	}

	var ncx ncxDocument
	if err := xml.Unmarshal(data, &ncx); err != nil {
		return nil
	}
	if len(ncx.NavMap.Points) == 0 {
		return nil
	}

	return &TableOfContents{
		Title:   strings.TrimSpace(ncx.Title.Text),
		Entries: convertNavPoints(ncx.NavMap.Points),
	}
}

func convertNavPoints(points []ncxNavPoint) []TOCEntry {
	entries := make([]TOCEntry, 0, len(points))
	for _, p := range points {
		entries = append(entries, TOCEntry{
			Title:    strings.TrimSpace(p.Label.Text),
			Href:     p.Content.Src,
			Children: convertNavPoints(p.Children),
		})
	}
	return entries
}
