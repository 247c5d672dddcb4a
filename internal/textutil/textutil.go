// Package textutil holds the small text helpers shared by the backend client
// and the renderer: HTML stripping for product labels, word wrapping for modal
// messages and display-width aware truncation.
package textutil

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"golang.org/x/net/html"
)

// blockTags get a separating space when they open or close.
var blockTags = map[string]struct{}{
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"p": {}, "div": {}, "br": {},
}

// SanitizeHTML strips markup from a product or sale label. Text content is
// kept with entities decoded, block-level tags separate words with a space,
// whitespace runs collapse to one space and a space is inserted before "(" when
// it directly follows a letter or digit.
func SanitizeHTML(in string) string {
	if !strings.ContainsAny(in, "<&") {
		return normalizeSpace(in)
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(in))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return normalizeSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if _, ok := blockTags[string(name)]; ok && b.Len() > 0 {
				b.WriteByte(' ')
			}
		}
	}
}

func normalizeSpace(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")

	var b strings.Builder
	b.Grow(len(collapsed))
	var prev rune
	for i, r := range collapsed {
		if r == '(' && i > 0 && (unicode.IsLetter(prev) || unicode.IsDigit(prev)) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// Wrap breaks message into lines of at most maxWidth columns on word
// boundaries. When more than maxLines lines result, the last kept line is
// replaced by "...".
func Wrap(message string, maxWidth, maxLines int) string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(message) {
		if line.Len() > 0 && runewidth.StringWidth(line.String())+runewidth.StringWidth(word)+1 > maxWidth {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}

	if maxLines > 0 && len(lines) > maxLines {
		lines = append(lines[:maxLines-1], "...")
	}
	return strings.Join(lines, "\n")
}

// Truncate shortens s to at most width display columns, ending in "..." when
// anything was cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "...")
}
