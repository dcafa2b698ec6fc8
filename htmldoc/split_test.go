package htmldoc

import (
	"strings"
	"testing"
)

// splitFixture parses content and splits it at its headings.
func splitFixture(t *testing.T, content string) []Fragment {
	t.Helper()
	doc, err := Parse(content)
	if err != nil {
		t.Fatal(err)
	}
	return SplitByHeadings(doc, FindHeadings(doc))
}

func TestSplitByHeadingsBoundaries(t *testing.T) {
	frags := splitFixture(t, `
<h1>Alpha</h1><p>alpha body</p>
<h2>Beta</h2><p>beta body</p><p>more beta</p>
<h1>Gamma</h1><p>gamma body</p>`)

	if len(frags) != 3 {
		t.Fatalf("got %d fragments, want 3", len(frags))
	}

	tests := []struct {
		idx      int
		title    string
		level    int
		contains string
		excludes string
	}{
		{0, "Alpha", 1, "alpha body", "beta body"},
		{1, "Beta", 2, "more beta", "gamma body"},
		{2, "Gamma", 1, "gamma body", "alpha body"},
	}
	for _, tt := range tests {
		f := frags[tt.idx]
		if f.Title != tt.title || f.Level != tt.level {
			t.Errorf("fragment %d = {%q %d}, want {%q %d}", tt.idx, f.Title, f.Level, tt.title, tt.level)
		}
		if !strings.Contains(f.Content, tt.contains) {
			t.Errorf("fragment %d missing %q: %q", tt.idx, tt.contains, f.Content)
		}
		if strings.Contains(f.Content, tt.excludes) {
			t.Errorf("fragment %d leaked %q: %q", tt.idx, tt.excludes, f.Content)
		}
	}
}

func TestSplitByHeadingsExcludesHeadingElements(t *testing.T) {
	frags := splitFixture(t, `<h1>Title</h1><p>body</p>`)

	if len(frags) != 1 {
		t.Fatalf("got %d fragments, want 1", len(frags))
	}
	if strings.Contains(frags[0].Content, "<h1") {
		t.Errorf("heading element leaked into content: %q", frags[0].Content)
	}
}

func TestSplitByHeadingsDropsPreamble(t *testing.T) {
	frags := splitFixture(t, `<p>preamble before any heading</p><h1>Start</h1><p>body</p>`)

	if len(frags) != 1 {
		t.Fatalf("got %d fragments, want 1", len(frags))
	}
	if strings.Contains(frags[0].Content, "preamble") {
		t.Errorf("preamble leaked into first fragment: %q", frags[0].Content)
	}
}

func TestSplitByHeadingsWrappedHeading(t *testing.T) {
	// A heading nested in a wrapper div must still act as a boundary.
	frags := splitFixture(t, `
<h1>One</h1><p>first</p>
<div class="chapter"><h1>Two</h1><p>second</p></div>`)

	if len(frags) != 2 {
		t.Fatalf("got %d fragments, want 2", len(frags))
	}
	if strings.Contains(frags[0].Content, "second") {
		t.Errorf("content after wrapped heading leaked backwards: %q", frags[0].Content)
	}
	if !strings.Contains(frags[1].Content, "second") {
		t.Errorf("wrapped heading's content missing: %q", frags[1].Content)
	}
}

func TestSplitByHeadingsUntitledFallback(t *testing.T) {
	frags := splitFixture(t, `<h1></h1><p>body</p>`)

	if len(frags) != 1 {
		t.Fatalf("got %d fragments, want 1", len(frags))
	}
	if frags[0].Title != untitledFallback {
		t.Errorf("got title %q, want %q", frags[0].Title, untitledFallback)
	}
}

func TestSplitByHeadingsPreservesMarkup(t *testing.T) {
	frags := splitFixture(t, `<h1>T</h1><p>keep <em>emphasis</em> intact</p>`)

	if !strings.Contains(frags[0].Content, "<em>emphasis</em>") {
		t.Errorf("inline markup lost: %q", frags[0].Content)
	}
}

func TestSplitByHeadingsEmptyList(t *testing.T) {
	doc, err := Parse(`<p>no headings here</p>`)
	if err != nil {
		t.Fatal(err)
	}
	if frags := SplitByHeadings(doc, nil); frags != nil {
		t.Errorf("got %v, want nil for empty heading list", frags)
	}
}
