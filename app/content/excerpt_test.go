package content

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `
<!DOCTYPE html>
<html>
<head>
	<title>Test Article</title>
</head>
<body>
	<main>
		<article>
			<h1>Main Article Title</h1>
			<p>This is the main content of the article. It contains several paragraphs of meaningful text that should be extracted by the readability algorithm.</p>
			<p>This is another paragraph with more content. The readability algorithm should identify this as the main content area and extract it properly.</p>
			<p>Here is some more substantial content to ensure we meet the character threshold. This paragraph adds more context and information that would be valuable to readers.</p>
		</article>
	</main>
</body>
</html>
`

func TestExcerptExtractorValidHTML(t *testing.T) {
	extractor := NewExcerptExtractor()

	excerpt, err := extractor.Run(articleHTML)
	require.NoError(t, err)

	assert.Contains(t, excerpt, "main content of the article")
	assert.LessOrEqual(t, utf8.RuneCountInString(excerpt), maxExcerptRunes)
	assert.NotContains(t, excerpt, "<p>")
}

func TestExcerptExtractorEmptyInput(t *testing.T) {
	extractor := NewExcerptExtractor()

	_, err := extractor.Run("   ")
	assert.Error(t, err)
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "short", truncateWords("short", 10))

	long := strings.Repeat("word ", 100)
	out := truncateWords(long, 50)
	assert.LessOrEqual(t, utf8.RuneCountInString(out), 50)
	assert.True(t, strings.HasSuffix(out, "…"))
	assert.False(t, strings.Contains(out, "wor…"))
}

func TestCatalogDerivesMissingExcerpt(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "articles.yml", `
items:
  - id: "a1"
    title: "Article"
    date: "2024-03-01"
    body: |
`+indent(articleHTML, "      "))

	catalog := NewCatalog(dir)
	require.NoError(t, catalog.Run())

	collection, err := catalog.GetCollection("articles")
	require.NoError(t, err)
	assert.Contains(t, collection.Items()[0].Excerpt, "main content of the article")
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
