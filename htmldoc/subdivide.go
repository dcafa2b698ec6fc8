package htmldoc

// Subdivide re-splits an over-length section at the next deeper heading
// level. Content at or under LongSectionWords, content already at the
// deepest structural level, and content with no deeper headings all come
// back unchanged as a single fragment — the explicit base cases that
// bound the recursion (depth can never exceed maxHeadingLevel).
//
// When deeper headings exist, the content is partitioned at them with
// the same boundary rule as SplitByHeadings, except that any preamble
// before the first deeper heading stays attached to the first part so
// nothing is lost. Parts still over the budget recurse one level deeper.
// Returned fragments carry the level they were cut at; titling of parts
// is the assembler's job.
func Subdivide(content string, level int) []Fragment {
	if CountWords(content) <= LongSectionWords || level >= maxHeadingLevel {
		return []Fragment{{Content: content, Level: level}}
	}

	doc, err := Parse(content)
	if err != nil {
		return []Fragment{{Content: content, Level: level}}
	}

	next := level + 1
	var deeper []Heading
	for _, h := range FindHeadings(doc) {
		if h.Level == next {
			deeper = append(deeper, h)
		}
	}
	if len(deeper) == 0 {
		return []Fragment{{Content: content, Level: level}}
	}

	parts := partition(doc, deeper, true)

	out := make([]Fragment, 0, len(parts))
	for _, part := range parts {
		out = append(out, Subdivide(part, next)...)
	}
	return out
}
