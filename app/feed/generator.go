package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/lysyi3m/content-comb/app/content"
	"github.com/lysyi3m/content-comb/app/filter"
)

// Channel carries the feed-level metadata of a rendered listing
type Channel struct {
	Title       string
	Link        string
	Description string
	SelfLink    string
	Language    string
	Version     string
}

type Generator struct {
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// Run renders items as an RSS 2.0 document in the given order
func (g *Generator) Run(ch Channel, items []content.Item) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", ch.Title, 4)
	g.writeElement(&buf, "link", ch.Link, 4)
	g.writeElement(&buf, "description", cmp.Or(ch.Description, ch.Title), 4)

	if ch.SelfLink != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(ch.SelfLink)))
	}

	lastBuildDate := g.now().UTC()
	for _, item := range items {
		if published, ok := publishedAt(item); ok {
			lastBuildDate = published
			break
		}
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("Content-Comb/%s", cmp.Or(ch.Version, "dev")), 4)
	g.writeElement(&buf, "language", ch.Language, 4)

	for _, item := range items {
		g.writeItem(&buf, ch, item)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, ch Channel, item content.Item) {
	buf.WriteString("    <item>\n")

	buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", g.isURL(item.ID)))
	xml.EscapeText(buf, []byte(item.ID))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", item.Title, 6)
	g.writeElement(buf, "link", g.itemLink(ch, item), 6)
	g.writeElement(buf, "description", cmp.Or(item.Excerpt, "No description available"), 6)

	if item.Body != "" && item.Body != item.Excerpt {
		buf.WriteString("      <content:encoded><![CDATA[")
		// "]]>" cannot appear inside a CDATA section
		buf.WriteString(strings.ReplaceAll(item.Body, "]]>", "]]]]><![CDATA[>"))
		buf.WriteString("]]></content:encoded>\n")
	}

	if published, ok := publishedAt(item); ok {
		g.writeElement(buf, "pubDate", published.Format(time.RFC1123Z), 6)
	}

	for _, category := range item.Categories {
		g.writeElement(buf, "category", category, 6)
	}
	if item.Type != "" {
		buf.WriteString("      <category domain=\"type\">")
		xml.EscapeText(buf, []byte(item.Type))
		buf.WriteString("</category>\n")
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) itemLink(ch Channel, item content.Item) string {
	if item.Link != "" {
		return item.Link
	}
	if ch.Link == "" {
		return ""
	}
	return strings.TrimRight(ch.Link, "/") + "#" + item.ID
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) isURL(s string) bool {
	return (len(s) > 7 && s[:7] == "http://") || (len(s) > 8 && s[:8] == "https://")
}

// publishedAt reads the item's calendar date as midnight UTC
func publishedAt(item content.Item) (time.Time, bool) {
	t, err := time.Parse(filter.DateLayout, item.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
