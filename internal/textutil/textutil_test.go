package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Tuborg Classic", "Tuborg Classic"},
		{"inline tags", "<b>Monster</b> <i>Energy</i>", "Monster Energy"},
		{"block tags separate words", "<h2>Kaffe</h2><p>stor</p>", "Kaffe stor"},
		{"br separates", "Øl<br>0,33l", "Øl 0,33l"},
		{"collapses whitespace", "  Cola \n\t Zero  ", "Cola Zero"},
		{"space before paren", "Chips(salt)", "Chips (salt)"},
		{"keeps existing space before paren", "Chips (salt)", "Chips (salt)"},
		{"entities decoded", "Fisk &amp; chips", "Fisk & chips"},
		{"attributes dropped", `<div class="x">Mars</div>`, "Mars"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeHTML(tt.in))
		})
	}
}

func TestWrap(t *testing.T) {
	got := Wrap("the quick brown fox jumps over the lazy dog", 10, 10)
	for _, line := range strings.Split(got, "\n") {
		assert.LessOrEqual(t, len(line), 10, "line %q", line)
	}
	assert.Equal(t, "the quick\nbrown fox\njumps over\nthe lazy\ndog", got)
}

func TestWrap_TruncatesLines(t *testing.T) {
	got := Wrap("a b c d e f", 1, 3)
	assert.Equal(t, "a\nb\n...", got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "", Truncate("abc", 0))
}
