// Package sections turns an EPUB package into the ordered, bounded,
// sanitized sections a book is read in. It orchestrates structure
// extraction, heading location, splitting, and long-section
// subdivision; the pieces themselves live in epubdoc and htmldoc.
package sections

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/plutotom/ep-reader/epubdoc"
	"github.com/plutotom/ep-reader/htmldoc"
)

const defaultMaxFileSize = 50 << 20

var (
	// ErrTooLarge means the uploaded file exceeds the configured size cap.
	ErrTooLarge = errors.New("sections: file exceeds maximum size")
	// ErrNoSections means the package opened but yielded no readable content.
	ErrNoSections = errors.New("sections: no readable content in book")
)

// Section is one parsed reading unit, not yet persisted. OrderIndex is
// dense from 0 and is the only ordering field consumers may rely on;
// chapter and section numbers are informational groupings.
type Section struct {
	Title            string
	Content          string
	ChapterNumber    int
	SectionNumber    int
	OrderIndex       int
	Level            int
	WordCount        int
	EstimatedMinutes int
}

// ParsedBook is the full result of parsing one EPUB upload.
type ParsedBook struct {
	Title         string
	Author        string
	Language      string
	Description   string
	Cover         *epubdoc.CoverImage
	CoverData     []byte
	Sections      []Section
	TotalChapters int
	TotalSections int
}

// Config controls an Assembler.
type Config struct {
	// MaxFileSize caps accepted uploads in bytes. Zero means the default
	// of 50 MB.
	MaxFileSize int64
	Logger      *slog.Logger
}

// Assembler parses EPUB files into books. Safe for concurrent use.
type Assembler struct {
	maxFileSize int64
	logger      *slog.Logger
}

// New creates an Assembler from cfg.
func New(cfg Config) *Assembler {
	a := &Assembler{
		maxFileSize: cfg.MaxFileSize,
		logger:      cfg.Logger,
	}
	if a.maxFileSize <= 0 {
		a.maxFileSize = defaultMaxFileSize
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Parse converts an EPUB file held in memory into a ParsedBook. It
// fails as a whole only when the package itself cannot be opened;
// individual content documents that fail to extract are skipped.
func (a *Assembler) Parse(data []byte) (*ParsedBook, error) {
	if int64(len(data)) > a.maxFileSize {
		return nil, ErrTooLarge
	}

	r, err := epubdoc.OpenBytes(data)
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}
	r.SetLogger(a.logger)

	meta := r.Metadata()
	book := &ParsedBook{
		Title:       meta.Title,
		Author:      strings.Join(meta.Creators, ", "),
		Language:    meta.Language,
		Description: meta.Description,
	}
	if book.Title == "" {
		book.Title = "Untitled"
	}
	if cover := r.Cover(); cover != nil {
		book.Cover = cover
		book.CoverData = r.CoverData()
	}

	book.Sections = a.assemble(r.Units())
	if len(book.Sections) == 0 {
		return nil, ErrNoSections
	}

	chapters := make(map[int]bool)
	for _, s := range book.Sections {
		chapters[s.ChapterNumber] = true
	}
	book.TotalChapters = len(chapters)
	book.TotalSections = len(book.Sections)

	a.logger.Info("parsed book",
		"title", book.Title,
		"chapters", book.TotalChapters,
		"sections", book.TotalSections)
	return book, nil
}

// assemble walks content units in reading order and emits sections.
// Chapter number increments once per top-level unit; the global order
// index is dense over everything emitted.
func (a *Assembler) assemble(units []epubdoc.ContentUnit) []Section {
	var out []Section
	chapter := 0
	sectionNum := 0

	for _, u := range units {
		clean := htmldoc.Sanitize(u.Raw)
		if strings.TrimSpace(clean) == "" {
			continue
		}
		doc, err := htmldoc.Parse(clean)
		if err != nil {
			a.logger.Warn("skipping unparsable unit", "title", u.Title, "error", err)
			continue
		}

		if u.Level <= 1 {
			chapter++
		}
		if chapter == 0 {
			chapter = 1
		}

		headings := htmldoc.FindHeadings(doc)
		if len(headings) == 0 {
			// Flat unit: the whole document body is one section. A
			// navigation label wins as the title; otherwise the chapter
			// counter names it.
			title := strings.TrimSpace(u.Title)
			level := u.Level
			if title == "" {
				title = fmt.Sprintf("Chapter %d", chapter)
				level = 1
			}
			wc := htmldoc.CountWords(clean)
			out = append(out, Section{
				Title:            title,
				Content:          clean,
				ChapterNumber:    chapter,
				SectionNumber:    1,
				OrderIndex:       len(out),
				Level:            level,
				WordCount:        wc,
				EstimatedMinutes: htmldoc.EstimateMinutes(wc),
			})
			continue
		}

		for _, frag := range htmldoc.SplitByHeadings(doc, headings) {
			if htmldoc.CountWords(frag.Content) <= htmldoc.LongSectionWords {
				sectionNum++
				out = append(out, a.section(frag.Title, frag.Content, chapter, sectionNum, len(out), frag.Level))
				continue
			}
			for i, part := range htmldoc.Subdivide(frag.Content, frag.Level) {
				title := frag.Title
				if i > 0 {
					title = fmt.Sprintf("%s (Part %d)", frag.Title, i+1)
				}
				sectionNum++
				out = append(out, a.section(title, part.Content, chapter, sectionNum, len(out), part.Level))
			}
		}
	}
	return out
}

func (a *Assembler) section(title, content string, chapter, num, order, level int) Section {
	wc := htmldoc.CountWords(content)
	return Section{
		Title:            title,
		Content:          content,
		ChapterNumber:    chapter,
		SectionNumber:    num,
		OrderIndex:       order,
		Level:            level,
		WordCount:        wc,
		EstimatedMinutes: htmldoc.EstimateMinutes(wc),
	}
}
