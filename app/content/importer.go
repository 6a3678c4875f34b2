package content

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const isoDateLayout = "2006-01-02"

// FeedImporter turns RSS/Atom documents into content items.
type FeedImporter struct {
	gofeedParser *gofeed.Parser
}

func NewFeedImporter() *FeedImporter {
	return &FeedImporter{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *FeedImporter) Run(data []byte, src FeedSource) ([]Item, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	source := cmp.Or(src.Source, strings.TrimSpace(feed.Title))

	items := make([]Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry == nil {
			continue
		}
		items = append(items, p.normalizeItem(entry, src, source))
	}

	return items, nil
}

func (p *FeedImporter) normalizeItem(entry *gofeed.Item, src FeedSource, source string) Item {
	item := Item{
		ID:         cmp.Or(entry.GUID, entry.Link),
		Title:      entry.Title,
		Excerpt:    strings.TrimSpace(entry.Description),
		Body:       entry.Content,
		Link:       entry.Link,
		Date:       p.entryDate(entry),
		Categories: append([]string(nil), src.Categories...),
		Type:       src.Type,
		Source:     source,
	}

	if entry.Categories != nil {
		item.Tags = append([]string(nil), entry.Categories...)
	}

	return item
}

// entryDate prefers the published date and falls back to the updated date.
// Entries with neither get an empty date and never match a date range.
func (p *FeedImporter) entryDate(entry *gofeed.Item) string {
	var t *time.Time
	if entry.PublishedParsed != nil {
		t = entry.PublishedParsed
	} else if entry.UpdatedParsed != nil {
		t = entry.UpdatedParsed
	}
	if t == nil {
		return ""
	}
	return t.UTC().Format(isoDateLayout)
}
