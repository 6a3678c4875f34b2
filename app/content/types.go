package content

// Item is a single piece of listed content: a news entry, article or announcement.
// Type and Source are optional; an empty string means the item has none.
type Item struct {
	ID         string   `yaml:"id" json:"id"`
	Title      string   `yaml:"title" json:"title"`
	Excerpt    string   `yaml:"excerpt" json:"excerpt"`
	Body       string   `yaml:"body" json:"-"`
	Link       string   `yaml:"link" json:"link,omitempty"`
	Date       string   `yaml:"date" json:"date"` // YYYY-MM-DD
	Categories []string `yaml:"categories" json:"categories"`
	Type       string   `yaml:"type" json:"type,omitempty"`
	Source     string   `yaml:"source" json:"source,omitempty"`
	Tags       []string `yaml:"tags" json:"tags"`
}

// Collection is an immutable, named list of items loaded from one content file.
type Collection struct {
	Name  string
	Title string
	items []Item
}

func NewCollection(name, title string, items []Item) *Collection {
	return &Collection{
		Name:  name,
		Title: title,
		items: append([]Item(nil), items...),
	}
}

// Items returns a copy of the collection's items in load order.
func (c *Collection) Items() []Item {
	return append([]Item(nil), c.items...)
}

func (c *Collection) Len() int {
	return len(c.items)
}

// Content file types

type collectionFile struct {
	Title string       `yaml:"title"`
	Items []Item       `yaml:"items"`
	Feeds []FeedSource `yaml:"feeds"`
}

// FeedSource points at an RSS/Atom file whose entries are imported into a collection.
type FeedSource struct {
	Path       string   `yaml:"path"` // relative to the content directory
	Type       string   `yaml:"type"`
	Source     string   `yaml:"source"`
	Categories []string `yaml:"categories"`
}
