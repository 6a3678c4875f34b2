package content

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const valueSeparator = ","

type Catalog struct {
	contentDir string
	cache      map[string]*Collection
	importer   *FeedImporter
	excerpts   *ExcerptExtractor
	mu         sync.RWMutex
}

func NewCatalog(contentDir string) *Catalog {
	return &Catalog{
		contentDir: contentDir,
		cache:      make(map[string]*Collection),
		importer:   NewFeedImporter(),
		excerpts:   NewExcerptExtractor(),
	}
}

// Run loads every *.yml and *.yaml file in the content directory.
// A missing directory yields an empty catalog.
func (c *Catalog) Run() error {
	if _, err := os.Stat(c.contentDir); os.IsNotExist(err) {
		return nil
	}

	var files []string
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matches, err := filepath.Glob(filepath.Join(c.contentDir, pattern))
		if err != nil {
			return fmt.Errorf("failed to find content files: %w", err)
		}
		files = append(files, matches...)
	}

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))

		collection, err := c.LoadCollection(name)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Collection loaded", "collection", name, "items", collection.Len())
	}

	return nil
}

func (c *Catalog) LoadCollection(name string) (*Collection, error) {
	path, err := c.getCollectionFilePath(name)
	if err != nil {
		return nil, err
	}

	file, err := c.parseCollection(path)
	if err != nil {
		return nil, err
	}

	items := file.Items
	for _, src := range file.Feeds {
		imported, err := c.importFeed(src)
		if err != nil {
			return nil, fmt.Errorf("failed to import feed %s: %w", src.Path, err)
		}
		items = append(items, imported...)
	}

	collection := NewCollection(name, file.Title, c.prepareItems(name, items))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[name] = collection

	return collection, nil
}

func (c *Catalog) GetCollection(name string) (*Collection, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	collection, ok := c.cache[name]
	if !ok {
		return nil, fmt.Errorf("collection with name '%s' not found", name)
	}
	return collection, nil
}

// GetCollections returns the loaded collections sorted by name.
func (c *Catalog) GetCollections() []*Collection {
	c.mu.RLock()
	defer c.mu.RUnlock()

	collections := make([]*Collection, 0, len(c.cache))
	for _, collection := range c.cache {
		collections = append(collections, collection)
	}
	slices.SortFunc(collections, func(a, b *Collection) int {
		return strings.Compare(a.Name, b.Name)
	})
	return collections
}

func (c *Catalog) GetCollectionCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *Catalog) parseCollection(path string) (*collectionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var file collectionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, src := range file.Feeds {
		if src.Path == "" {
			return nil, fmt.Errorf("feed at index %d must have a path", i)
		}
	}

	return &file, nil
}

func (c *Catalog) importFeed(src FeedSource) ([]Item, error) {
	path := src.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.contentDir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed file: %w", err)
	}

	return c.importer.Run(data, src)
}

// prepareItems drops items without an id or title, keeps the first of any
// duplicate ids, cleans facet values and fills missing excerpts from the
// HTML body.
func (c *Catalog) prepareItems(collection string, items []Item) []Item {
	seen := make(map[string]bool, len(items))
	prepared := make([]Item, 0, len(items))

	for i, item := range items {
		item.ID = strings.TrimSpace(item.ID)
		item.Title = strings.TrimSpace(item.Title)

		if item.ID == "" || item.Title == "" {
			slog.Warn("Skipping content item without id or title", "collection", collection, "index", i)
			continue
		}
		if seen[item.ID] {
			slog.Warn("Skipping duplicate content item", "collection", collection, "id", item.ID)
			continue
		}
		seen[item.ID] = true

		item.Categories = splitValues(item.Categories)
		item.Type = singleValue(collection, item.ID, "type", item.Type)
		item.Source = singleValue(collection, item.ID, "source", item.Source)

		if needsExcerpt(item) {
			source := item.Excerpt
			if strings.TrimSpace(source) == "" {
				source = item.Body
			}
			excerpt, err := c.excerpts.Run(source)
			if err != nil {
				slog.Debug("Excerpt extraction failed", "collection", collection, "id", item.ID, "error", err)
			} else {
				item.Excerpt = excerpt
			}
		}

		prepared = append(prepared, item)
	}

	return prepared
}

// splitValues breaks comma-joined entries apart, trims them and drops blanks
// and duplicates. Facet values are comma-joined in listing URLs, so a stored
// value must never contain one.
func splitValues(values []string) []string {
	var out []string
	for _, entry := range values {
		for _, v := range strings.Split(entry, valueSeparator) {
			v = strings.TrimSpace(v)
			if v == "" || slices.Contains(out, v) {
				continue
			}
			out = append(out, v)
		}
	}
	return out
}

// singleValue trims a type or source and keeps the part before any comma.
func singleValue(collection, id, field, value string) string {
	value = strings.TrimSpace(value)
	if head, _, found := strings.Cut(value, valueSeparator); found {
		slog.Warn("Truncating content value containing a comma",
			"collection", collection, "id", id, "field", field, "value", value)
		value = strings.TrimSpace(head)
	}
	return value
}

func needsExcerpt(item Item) bool {
	if strings.TrimSpace(item.Excerpt) == "" {
		return strings.TrimSpace(item.Body) != ""
	}
	return strings.Contains(item.Excerpt, "<")
}

func (c *Catalog) getCollectionFilePath(name string) (string, error) {
	for _, ext := range []string{".yml", ".yaml"} {
		path := filepath.Join(c.contentDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("content file for collection '%s' not found", name)
}
