package titles

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

var (
	leadingTagPattern   = regexp.MustCompile(`^\s*\[[^\]]*\]\s*`)
	wordPattern         = regexp.MustCompile(`\b[A-Za-z]+[0-9]*\b`)
	numericGroupPattern = regexp.MustCompile(`\([^()]*[0-9][^()]*\)`)
)

// Extract returns the title words found in filename joined by single spaces.
// The boolean is false when no word qualifies.
func Extract(filename string) (string, bool) {
	remainder := leadingTagPattern.ReplaceAllString(width.Fold.String(filename), "")

	excluded := numericGroupPattern.FindAllStringIndex(remainder, -1)
	words := make([]string, 0, 8)
	for _, loc := range wordPattern.FindAllStringIndex(remainder, -1) {
		if within(loc, excluded) {
			continue
		}
		words = append(words, remainder[loc[0]:loc[1]])
	}
	if len(words) == 0 {
		return "", false
	}
	return strings.Join(words, " "), true
}

// DisplayTitle returns the extracted title, or the raw filename when none
// could be derived.
func DisplayTitle(filename string) string {
	if title, ok := Extract(filename); ok {
		return title
	}
	return filename
}

func within(loc []int, ranges [][]int) bool {
	for _, r := range ranges {
		if loc[0] >= r[0] && loc[1] <= r[1] {
			return true
		}
	}
	return false
}
