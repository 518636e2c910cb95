package views

import (
	"regexp"
	"strings"
	"time"
)

var reTags = regexp.MustCompile(`<[^>]*>`)

// StripTags removes HTML tags from a string, for plain-text excerpts.
func StripTags(s string) string {
	return reTags.ReplaceAllString(s, "")
}

// Excerpt returns at most n runes of plain text from content, with an
// ellipsis when anything was cut.
func Excerpt(content string, n int) string {
	plain := strings.Join(strings.Fields(StripTags(content)), " ")
	runes := []rune(plain)
	if len(runes) <= n {
		return plain
	}
	return strings.TrimRight(string(runes[:n]), " ") + "..."
}

// FormatDate renders a timestamp the way post headers show it.
func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}
