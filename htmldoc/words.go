package htmldoc

import (
	"regexp"
	"strings"
)

// wordsPerMinute is the assumed adult reading speed.
const wordsPerMinute = 200

// LongSectionWords is the word count above which a section is
// subdivided at the next heading level.
const LongSectionWords = 2000

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// CountWords counts whitespace-separated words in an HTML fragment.
// Tags are replaced by a single space so adjacent elements do not fuse
// into one token. Counting is whitespace-based, not locale-aware.
func CountWords(content string) int {
	return len(strings.Fields(tagPattern.ReplaceAllString(content, " ")))
}

// EstimateMinutes converts a word count into estimated reading minutes,
// rounded up.
func EstimateMinutes(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
