package content

import (
	"cmp"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"
)

const maxExcerptRunes = 200

type ExcerptExtractor struct{}

func NewExcerptExtractor() *ExcerptExtractor {
	return &ExcerptExtractor{}
}

// Run derives a plain-text excerpt from an HTML fragment or document.
func (e *ExcerptExtractor) Run(htmlBody string) (string, error) {
	if strings.TrimSpace(htmlBody) == "" {
		return "", fmt.Errorf("HTML body is empty")
	}

	article, err := readability.FromReader(strings.NewReader(htmlBody), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract excerpt: %w", err)
	}

	text := cmp.Or(strings.TrimSpace(article.Excerpt), strings.TrimSpace(article.TextContent))
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", fmt.Errorf("no text extracted from HTML body")
	}

	return truncateWords(text, maxExcerptRunes), nil
}

// truncateWords cuts s to at most max runes, backing off to the last space
// and appending an ellipsis when anything was removed.
func truncateWords(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	runes := []rune(s)
	cut := string(runes[:max-1])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
