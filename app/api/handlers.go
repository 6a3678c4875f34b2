package api

import (
	"cmp"
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/content-comb/app/content"
	"github.com/lysyi3m/content-comb/app/feed"
	"github.com/lysyi3m/content-comb/app/filter"
	"github.com/lysyi3m/content-comb/app/views"
)

const (
	maxFeedItems   = 50
	clientIDHeader = "X-Client-ID"
	healthTimeout  = 2 * time.Second
)

type Handler struct {
	catalog   CatalogInterface
	generator GeneratorInterface
	views     *views.Store
	opts      Options
	now       func() time.Time
}

func NewHandler(catalog CatalogInterface, store *views.Store, opts Options) *Handler {
	opts.PageSize = cmp.Or(opts.PageSize, 9)
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.DefaultLocale.IsZero() {
		opts.DefaultLocale = filter.Turkish
	}

	return &Handler{
		catalog:   catalog,
		generator: feed.NewGenerator(),
		views:     store,
		opts:      opts,
		now:       time.Now,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	body := gin.H{
		"timestamp":   h.now().In(h.opts.Location).Format(time.RFC3339),
		"collections": h.catalog.GetCollectionCount(),
		"view_store":  h.opts.ViewBackend,
	}

	if h.opts.ViewHealth != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()
		body["view_store_health"] = h.opts.ViewHealth(ctx)
	}

	c.JSON(http.StatusOK, body)
}

func (h *Handler) ListCollections(c *gin.Context) {
	collections := h.catalog.GetCollections()

	out := make([]gin.H, 0, len(collections))
	for _, coll := range collections {
		out = append(out, gin.H{
			"name":       coll.Name,
			"title":      coll.Title,
			"item_count": coll.Len(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"collections": out,
		"total":       len(out),
	})
}

func (h *Handler) ListItems(c *gin.Context) {
	coll, ok := h.collection(c)
	if !ok {
		return
	}

	values := c.Request.URL.Query()
	st := filter.DecodeValues(values)
	page, per := filter.DecodePage(values, h.opts.PageSize)
	locale := h.locale(c)

	all := coll.Items()
	matched := filter.Apply(all, st)
	pageItems, info := filter.Paginate(matched, page, per, h.opts.PageSize)

	items := make([]itemResponse, len(pageItems))
	for i, item := range pageItems {
		items[i] = itemResponse{
			Item:        item,
			DisplayDate: filter.FormatForLocale(item.Date, locale),
		}
	}

	chips := make(map[filter.Facet][]filter.Chip, len(filter.Facets))
	for _, f := range filter.Facets {
		chips[f] = filter.Chips(all, st, f)
	}

	resp := listingResponse{
		Collection: coll.Name,
		Title:      coll.Title,
		Locale:     locale.String(),
		Query:      filter.Encode(st),
		Active:     st.CountActive(),
		Page:       info,
		Items:      items,
		Chips:      chips,
	}
	if info.Page > 1 {
		prev := filter.EncodeWithPage(st, info.Page-1, info.Per)
		resp.PrevQuery = &prev
	}
	if info.Page < info.Pages {
		next := filter.EncodeWithPage(st, info.Page+1, info.Per)
		resp.NextQuery = &next
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetFacetCounts(c *gin.Context) {
	coll, ok := h.collection(c)
	if !ok {
		return
	}

	f, ok := filter.ParseFacet(c.Param("facet"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown facet"})
		return
	}

	st := filter.DecodeValues(c.Request.URL.Query())

	c.JSON(http.StatusOK, gin.H{
		"facet":  f,
		"query":  filter.Encode(st),
		"counts": filter.CountsFor(coll.Items(), st, f),
	})
}

func (h *Handler) GetFeed(c *gin.Context) {
	coll, ok := h.collection(c)
	if !ok {
		return
	}

	st := filter.DecodeValues(c.Request.URL.Query())
	items := filter.Apply(coll.Items(), st)
	if len(items) > maxFeedItems {
		items = items[:maxFeedItems]
	}

	query := filter.Encode(st)
	selfLink := h.publicURL("/feeds/" + coll.Name)
	if query != "" {
		selfLink += "?" + query
	}

	rss, err := h.generator.Run(feed.Channel{
		Title:    coll.Title,
		Link:     h.publicURL("/" + coll.Name),
		SelfLink: selfLink,
		Language: h.locale(c).String(),
		Version:  h.opts.Version,
	}, items)
	if err != nil {
		slog.Error("RSS generation error", "collection", coll.Name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(items)))
	c.Header("X-Feed-Name", coll.Name)

	c.String(http.StatusOK, rss)
}

func (h *Handler) GetQuickRange(c *gin.Context) {
	option, ok := filter.ParseQuickRange(c.Param("option"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown range option"})
		return
	}

	today := h.now().In(h.opts.Location)
	if raw := c.Query("today"); raw != "" {
		parsed, err := time.Parse(filter.DateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid today parameter, expected YYYY-MM-DD"})
			return
		}
		today = parsed
	}

	r := filter.ResolveQuickRange(option, today)
	if r == nil {
		c.JSON(http.StatusOK, gin.H{"option": option, "range": nil})
		return
	}

	locale := h.locale(c)
	c.JSON(http.StatusOK, gin.H{
		"option": option,
		"range":  r,
		"display": gin.H{
			"start":   filter.FormatForLocale(r.Start, locale),
			"end":     filter.FormatForLocale(r.End, locale),
			"pattern": locale.Pattern(),
		},
		"query": filter.Encode(filter.State{DateRange: r}),
	})
}

func (h *Handler) ValidateRange(c *gin.Context) {
	var req rangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	locale := filter.LocaleOrDefault(req.Locale, h.opts.DefaultLocale)
	r, err := filter.ParseLocalRange(req.Start, req.End, locale)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   filter.RangeErrorCode(err),
			"message": err.Error(),
			"pattern": locale.Pattern(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"range": r,
		"query": filter.Encode(filter.State{DateRange: &r}),
	})
}

func (h *Handler) ListViews(c *gin.Context) {
	list := h.views.List(c.Request.Context(), clientID(c))

	c.JSON(http.StatusOK, gin.H{
		"views": list,
		"total": len(list),
		"limit": views.MaxViews,
	})
}

func (h *Handler) SaveView(c *gin.Context) {
	var req viewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	view, err := h.views.Save(c.Request.Context(), clientID(c), req.Name, filter.Decode(req.Query))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *Handler) GetView(c *gin.Context) {
	view, ok := h.views.Get(c.Request.Context(), clientID(c), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "View not found"})
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *Handler) TouchView(c *gin.Context) {
	view, ok := h.views.Touch(c.Request.Context(), clientID(c), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "View not found"})
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *Handler) DeleteView(c *gin.Context) {
	if !h.views.Remove(c.Request.Context(), clientID(c), c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "View not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) collection(c *gin.Context) (*content.Collection, bool) {
	name := c.Param("name")

	coll, err := h.catalog.GetCollection(name)
	if err != nil {
		slog.Debug("Collection not found", "collection", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
		return nil, false
	}
	return coll, true
}

// locale resolves the request locale from ?locale=, then Accept-Language,
// then the configured default
func (h *Handler) locale(c *gin.Context) filter.Locale {
	if l, ok := filter.MatchLocale(c.Query("locale")); ok {
		return l
	}
	if l, ok := filter.MatchAcceptLanguage(c.GetHeader("Accept-Language")); ok {
		return l
	}
	return h.opts.DefaultLocale
}

func (h *Handler) publicURL(path string) string {
	if h.opts.BaseUrl != "" {
		return strings.TrimRight(h.opts.BaseUrl, "/") + path
	}
	return "http://localhost:" + cmp.Or(h.opts.Port, "8080") + path
}

func clientID(c *gin.Context) string {
	return cmp.Or(strings.TrimSpace(c.GetHeader(clientIDHeader)), views.DefaultOwner)
}
