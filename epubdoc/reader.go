package epubdoc

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"
)

// Reader-level errors. Opening fails as a whole only when the container
// itself is unusable; individual content documents degrade per item.
var (
	ErrInvalidArchive = errors.New("epub: invalid or corrupted archive")
	ErrMissingContent = errors.New("epub: referenced content file not found")
	ErrNoContent      = errors.New("epub: no readable representation for item")
)

// Reader provides access to the content of one EPUB package.
type Reader struct {
	zr      *zip.Reader
	pkg     *Package
	baseDir string // directory containing the OPF, for resolving hrefs
	toc     *TableOfContents
	tocSet  bool
	cache   map[string][]byte // preloaded spine content, keyed by manifest ID
	logger  *slog.Logger
}

// OpenBytes opens an EPUB package held in memory, as received from an
// upload. The whole operation fails only if the container, package
// document, or DRM state make the book unreadable.
func OpenBytes(data []byte) (*Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, ErrInvalidArchive
	}
	return newReader(zr)
}

func newReader(zr *zip.Reader) (*Reader, error) {
	r := &Reader{
		zr:     zr,
		cache:  make(map[string][]byte),
		logger: slog.Default(),
	}

	// Some EPUBs omit the mimetype entry entirely; only an explicitly
	// wrong one is treated as suspicious, and even then we continue.
	r.checkMimetype()

	if err := checkForDRM(zr); err != nil {
		return nil, err
	}

	opfPath, err := parseContainer(zr)
	if err != nil {
		return nil, err
	}

	pkg, baseDir, err := parsePackage(zr, opfPath)
	if err != nil {
		return nil, err
	}
	r.pkg = pkg
	r.baseDir = baseDir

	r.preloadSpine()

	return r, nil
}

// SetLogger replaces the logger used for per-item extraction warnings.
func (r *Reader) SetLogger(l *slog.Logger) {
	if l != nil {
		r.logger = l
	}
}

// checkMimetype logs when the mimetype entry exists but is not the
// EPUB media type. Absence is tolerated.
func (r *Reader) checkMimetype() {
	for _, f := range r.zr.File {
		if f.Name != "mimetype" {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			return
		}
		if strings.TrimSpace(string(data)) != "application/epub+zip" {
			r.logger.Debug("unexpected mimetype entry", "value", strings.TrimSpace(string(data)))
		}
		return
	}
}

// preloadSpine reads every spine-referenced content document into the
// byte-buffer cache. Missing or unreadable files are skipped here and
// surface later, per item, during unit extraction.
func (r *Reader) preloadSpine() {
	for _, si := range r.pkg.Spine {
		item, ok := r.pkg.Manifest[si.IDRef]
		if !ok {
			continue
		}
		data, err := r.readFile(r.resolveHref(item.Href))
		if err != nil {
			continue
		}
		r.cache[item.ID] = data
	}
}

// Metadata returns the package metadata.
func (r *Reader) Metadata() Metadata {
	return r.pkg.Metadata
}

// Units returns the package's content documents as raw markup in final
// reading order. A non-empty table of contents wins: its depth-first
// traversal defines order, nesting depth, and titles. Otherwise the
// flat spine order is used with every unit at level 1. Items that fail
// extraction are logged and skipped; Units never fails as a whole.
func (r *Reader) Units() []ContentUnit {
	var units []ContentUnit
	seen := make(map[string]bool)

	if toc := r.TableOfContents(); toc != nil {
		r.collectUnits(toc.Entries, 1, seen, &units)
	}
	if len(units) > 0 {
		return units
	}

	for _, si := range r.pkg.Spine {
		item, ok := r.pkg.Manifest[si.IDRef]
		if !ok || !isMarkupItem(item) {
			continue
		}
		raw, err := extractContent(r.sourceFor(item), item.MediaType)
		if err != nil {
			r.logger.Warn("skipping spine item", "id", si.IDRef, "href", item.Href, "error", err)
			continue
		}
		units = append(units, ContentUnit{Raw: raw, Level: 1})
	}
	return units
}

// collectUnits walks navigation entries depth-first, emitting one unit
// per distinct content document. Depth is capped at 3, the deepest
// structural level sections can carry.
func (r *Reader) collectUnits(entries []TOCEntry, depth int, seen map[string]bool, out *[]ContentUnit) {
	level := depth
	if level > 3 {
		level = 3
	}

	for _, e := range entries {
		href := stripFragment(e.Href)
		if href != "" {
			if item, ok := r.manifestByHref(href); ok && isMarkupItem(item) {
				resolved := r.resolveHref(item.Href)
				if !seen[resolved] {
					raw, err := extractContent(r.sourceFor(item), item.MediaType)
					if err != nil {
						r.logger.Warn("skipping navigation item", "href", href, "error", err)
					} else {
						seen[resolved] = true
						*out = append(*out, ContentUnit{Raw: raw, Level: level, Title: strings.TrimSpace(e.Title)})
					}
				}
			}
		}
		r.collectUnits(e.Children, depth+1, seen, out)
	}
}

// manifestByHref finds the manifest item a navigation href points at.
// Hrefs resolve relative to the OPF directory; when that fails, a
// basename match tolerates navigation documents living elsewhere in
// the archive.
func (r *Reader) manifestByHref(href string) (ManifestItem, bool) {
	want := r.resolveHref(href)
	for _, item := range r.pkg.Manifest {
		if r.resolveHref(item.Href) == want {
			return item, true
		}
	}
	base := path.Base(want)
	for _, item := range r.pkg.Manifest {
		if path.Base(item.Href) == base {
			return item, true
		}
	}
	return ManifestItem{}, false
}

// isMarkupItem reports whether a manifest item is an XHTML/HTML content
// document rather than an image, font, or stylesheet.
func isMarkupItem(item ManifestItem) bool {
	switch item.MediaType {
	case "application/xhtml+xml", "text/html":
		return true
	}
	href := strings.ToLower(item.Href)
	return strings.HasSuffix(href, ".xhtml") ||
		strings.HasSuffix(href, ".html") ||
		strings.HasSuffix(href, ".htm")
}

// resolveHref resolves a (possibly URL-encoded) href against the OPF
// base directory.
func (r *Reader) resolveHref(href string) string {
	if decoded, err := url.QueryUnescape(href); err == nil {
		href = decoded
	}
	if r.baseDir == "" {
		return href
	}
	return path.Join(r.baseDir, href)
}

// stripFragment removes the #fragment part of a navigation href.
func stripFragment(href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		return href[:i]
	}
	return href
}

// findFile locates a file in the archive by exact name.
func (r *Reader) findFile(name string) *zip.File {
	for _, f := range r.zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// readFile reads a file from the archive by exact name.
func (r *Reader) readFile(name string) ([]byte, error) {
	f := r.findFile(name)
	if f == nil {
		return nil, ErrMissingContent
	}
	return readZipFile(f)
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
