// Package epubdoc reads EPUB packages and enumerates their content
// documents in final reading order, tolerating the representational
// looseness of real-world EPUBs (EPUB 2 and 3, NCX or nav-document
// tables of contents, odd charsets, missing files).
package epubdoc

// Package is the parsed OPF package document.
type Package struct {
	Metadata Metadata
	Manifest map[string]ManifestItem // keyed by ID
	Spine    []SpineItem
	Version  string // "2.0" or "3.0"
	CoverID  string // manifest ID named by an EPUB 2 <meta name="cover">
}

// Metadata holds the Dublin Core metadata of a package.
type Metadata struct {
	Title       string
	Creators    []string
	Language    string
	Identifier  string
	Publisher   string
	Description string
}

// ManifestItem is one file declared by the package manifest.
type ManifestItem struct {
	ID         string
	Href       string
	MediaType  string
	Properties []string // "nav", "cover-image", ...
}

// SpineItem is one content document in the flat reading order.
type SpineItem struct {
	IDRef  string
	Linear bool
}

// TableOfContents is the package's hierarchical navigation structure.
type TableOfContents struct {
	Title   string
	Entries []TOCEntry
}

// TOCEntry is a single navigation node.
type TOCEntry struct {
	Title    string
	Href     string
	Children []TOCEntry
}

// ContentUnit is one unit of raw markup in final reading order, as
// consumed by the section assembler. Level is the navigation nesting
// depth the unit was found at (1 for spine fallback), capped at 3.
type ContentUnit struct {
	Raw   string
	Level int
	Title string // navigation label, empty for spine fallback
}

// CoverImage describes the package's cover, when one is declared.
// Width, Height, and Format are zero when the image could not be
// decoded; the Href is still usable.
type CoverImage struct {
	Href      string
	MediaType string
	Width     int
	Height    int
	Format    string
}
