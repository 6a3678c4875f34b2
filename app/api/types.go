package api

import (
	"context"
	"time"

	"github.com/lysyi3m/content-comb/app/content"
	"github.com/lysyi3m/content-comb/app/feed"
	"github.com/lysyi3m/content-comb/app/filter"
)

type CatalogInterface interface {
	GetCollection(name string) (*content.Collection, error)
	GetCollections() []*content.Collection
	GetCollectionCount() int
}

type GeneratorInterface interface {
	Run(ch feed.Channel, items []content.Item) (string, error)
}

var (
	_ CatalogInterface   = (*content.Catalog)(nil)
	_ GeneratorInterface = (*feed.Generator)(nil)
)

type Options struct {
	BaseUrl       string
	Port          string
	Version       string
	PageSize      int
	DefaultLocale filter.Locale
	Location      *time.Location
	ViewBackend   string
	// ViewHealth reports backend details for /health. Nil for in-memory storage.
	ViewHealth func(ctx context.Context) map[string]any
}

type itemResponse struct {
	content.Item
	DisplayDate string `json:"display_date"`
}

type listingResponse struct {
	Collection string                         `json:"collection"`
	Title      string                         `json:"title"`
	Locale     string                         `json:"locale"`
	Query      string                         `json:"query"`
	Active     int                            `json:"active"`
	Page       filter.PageInfo                `json:"page"`
	PrevQuery  *string                        `json:"prev_query"`
	NextQuery  *string                        `json:"next_query"`
	Items      []itemResponse                 `json:"items"`
	Chips      map[filter.Facet][]filter.Chip `json:"chips"`
}

type rangeRequest struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Locale string `json:"locale"`
}

type viewRequest struct {
	Name  string `json:"name" binding:"required"`
	Query string `json:"query"`
}
