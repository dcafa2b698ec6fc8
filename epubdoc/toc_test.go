package epubdoc

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"
)

// createNestedEPUB builds an EPUB 2 package whose NCX nests chapters
// under parts, with a shared landing document for the first part.
func createNestedEPUB(t *testing.T) []byte {
	t.Helper()
	return buildArchive(t, []archiveFile{
		{"META-INF/container.xml", testContainerXML},
		{"OEBPS/content.opf", `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Nested Book</dc:title>
  </metadata>
  <manifest>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    <item id="part1" href="part1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="part1"/>
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
  </spine>
</package>`},
		{"OEBPS/toc.ncx", `<?xml version="1.0"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <docTitle><text>Nested Book</text></docTitle>
  <navMap>
    <navPoint id="n1">
      <navLabel><text>Part One</text></navLabel>
      <content src="part1.xhtml"/>
      <navPoint id="n1a">
        <navLabel><text>Chapter One</text></navLabel>
        <content src="ch1.xhtml"/>
      </navPoint>
      <navPoint id="n1b">
        <navLabel><text>Also Part One</text></navLabel>
        <content src="part1.xhtml#half"/>
      </navPoint>
    </navPoint>
    <navPoint id="n2">
      <navLabel><text>Chapter Two</text></navLabel>
      <content src="ch2.xhtml"/>
    </navPoint>
  </navMap>
</ncx>`},
		{"OEBPS/part1.xhtml", chapterDoc("Part One", "<h1>Part One</h1><p>part intro</p>")},
		{"OEBPS/ch1.xhtml", chapterDoc("Chapter One", "<h2>Chapter One</h2><p>chapter one body</p>")},
		{"OEBPS/ch2.xhtml", chapterDoc("Chapter Two", "<h1>Chapter Two</h1><p>chapter two body</p>")},
	})
}

func TestTableOfContentsNCX(t *testing.T) {
	r, err := OpenBytes(createNestedEPUB(t))
	if err != nil {
		t.Fatal(err)
	}

	toc := r.TableOfContents()
	if toc == nil {
		t.Fatal("no table of contents parsed")
	}
	if toc.Title != "Nested Book" {
		t.Errorf("title = %q, want %q", toc.Title, "Nested Book")
	}
	if len(toc.Entries) != 2 {
		t.Fatalf("got %d top-level entries, want 2", len(toc.Entries))
	}
	if toc.Entries[0].Title != "Part One" || len(toc.Entries[0].Children) != 2 {
		t.Errorf("entry 0 = %+v, want Part One with 2 children", toc.Entries[0])
	}
}

func TestUnitsFromTOC(t *testing.T) {
	r, err := OpenBytes(createNestedEPUB(t))
	if err != nil {
		t.Fatal(err)
	}

	units := r.Units()
	// part1 appears twice in the navMap but must be emitted once.
	if len(units) != 3 {
		t.Fatalf("got %d units, want 3", len(units))
	}

	tests := []struct {
		idx      int
		title    string
		level    int
		contains string
	}{
		{0, "Part One", 1, "part intro"},
		{1, "Chapter One", 2, "chapter one body"},
		{2, "Chapter Two", 1, "chapter two body"},
	}
	for _, tt := range tests {
		u := units[tt.idx]
		if u.Title != tt.title || u.Level != tt.level {
			t.Errorf("unit %d = {%q %d}, want {%q %d}", tt.idx, u.Title, u.Level, tt.title, tt.level)
		}
		if !strings.Contains(u.Raw, tt.contains) {
			t.Errorf("unit %d missing %q", tt.idx, tt.contains)
		}
	}
}

func TestTableOfContentsNavDocument(t *testing.T) {
	data := buildArchive(t, []archiveFile{
		{"META-INF/container.xml", testContainerXML},
		{"OEBPS/content.opf", `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>Nav Book</dc:title></metadata>
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="c1" href="c1.xhtml" media-type="application/xhtml+xml"/>
    <item id="c2" href="c2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine><itemref idref="c1"/><itemref idref="c2"/></spine>
</package>`},
		{"OEBPS/nav.xhtml", `<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<body><nav epub:type="toc"><h2>Contents</h2>
<ol>
  <li><a href="c1.xhtml">First</a>
    <ol><li><a href="c2.xhtml">Second</a></li></ol>
  </li>
</ol>
</nav></body></html>`},
		{"OEBPS/c1.xhtml", chapterDoc("First", "<h1>First</h1><p>one</p>")},
		{"OEBPS/c2.xhtml", chapterDoc("Second", "<h2>Second</h2><p>two</p>")},
	})

	r, err := OpenBytes(data)
	if err != nil {
		t.Fatal(err)
	}

	toc := r.TableOfContents()
	if toc == nil {
		t.Fatal("no table of contents parsed")
	}
	if toc.Title != "Contents" {
		t.Errorf("title = %q, want Contents", toc.Title)
	}
	if len(toc.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(toc.Entries))
	}
	e := toc.Entries[0]
	if e.Title != "First" || e.Href != "c1.xhtml" {
		t.Errorf("entry = %+v", e)
	}
	if len(e.Children) != 1 || e.Children[0].Title != "Second" {
		t.Errorf("children = %+v", e.Children)
	}

	units := r.Units()
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2", len(units))
	}
	if units[1].Level != 2 {
		t.Errorf("nested unit level = %d, want 2", units[1].Level)
	}
}

func TestCoverFromEPUB2Meta(t *testing.T) {
	var imgBuf bytes.Buffer
	if err := png.Encode(&imgBuf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatal(err)
	}

	data := buildArchive(t, []archiveFile{
		{"META-INF/container.xml", testContainerXML},
		{"OEBPS/content.opf", `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Covered</dc:title>
    <meta name="cover" content="coverimg"/>
  </metadata>
  <manifest>
    <item id="coverimg" href="cover.png" media-type="image/png"/>
    <item id="c1" href="c1.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine><itemref idref="c1"/></spine>
</package>`},
		{"OEBPS/cover.png", imgBuf.String()},
		{"OEBPS/c1.xhtml", chapterDoc("C1", "<p>body</p>")},
	})

	r, err := OpenBytes(data)
	if err != nil {
		t.Fatal(err)
	}

	cover := r.Cover()
	if cover == nil {
		t.Fatal("no cover found")
	}
	if cover.Href != "cover.png" || cover.MediaType != "image/png" {
		t.Errorf("cover = %+v", cover)
	}
	if cover.Width != 1 || cover.Height != 1 || cover.Format != "png" {
		t.Errorf("decoded config = %dx%d %q, want 1x1 png", cover.Width, cover.Height, cover.Format)
	}
	if len(r.CoverData()) == 0 {
		t.Error("CoverData returned no bytes")
	}
}

func TestCoverAbsentIsNil(t *testing.T) {
	r, err := OpenBytes(createTestEPUB(t))
	if err != nil {
		t.Fatal(err)
	}
	if cover := r.Cover(); cover != nil {
		t.Errorf("got %+v, want nil", cover)
	}
}
