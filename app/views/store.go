package views

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lysyi3m/content-comb/app/filter"
)

const (
	// MaxViews bounds the history per client. Eviction is by insertion order only.
	MaxViews = 10

	DefaultOwner = "anonymous"

	keyPrefix = "saved_views:"
)

var ErrNameRequired = errors.New("view name is required")

type SavedView struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Filters    filter.State `json:"filters"`
	Query      string       `json:"query"`
	CreatedAt  time.Time    `json:"created_at"`
	LastUsedAt *time.Time   `json:"last_used_at,omitempty"`
}

// record is the persisted shape. Filters travel as their canonical query string.
type record struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Query      string     `json:"query"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

func (r record) view() SavedView {
	return SavedView{
		ID:         r.ID,
		Name:       r.Name,
		Filters:    filter.Decode(r.Query),
		Query:      r.Query,
		CreatedAt:  r.CreatedAt,
		LastUsedAt: r.LastUsedAt,
	}
}

// Store keeps a bounded, newest-first list of named filter snapshots per
// owner. Storage failures are logged and the store behaves as if empty.
// Removing the last view deletes the owner's document.
type Store struct {
	kv    KV
	now   func() time.Time
	newID func() string
	limit int
	mu    sync.Mutex
}

func NewStore(kv KV) *Store {
	return &Store{
		kv:    kv,
		now:   time.Now,
		newID: uuid.NewString,
		limit: MaxViews,
	}
}

func (s *Store) List(ctx context.Context, owner string) []SavedView {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, _ := s.load(ctx, owner)
	out := make([]SavedView, len(records))
	for i, r := range records {
		out[i] = r.view()
	}
	return out
}

func (s *Store) Get(ctx context.Context, owner, id string) (SavedView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, _ := s.load(ctx, owner)
	for _, r := range records {
		if r.ID == id {
			return r.view(), true
		}
	}
	return SavedView{}, false
}

// Save prepends a new view and drops the oldest entries beyond the limit.
// When the stored list cannot be read the view is returned but not persisted,
// so an unreadable backend never overwrites existing views.
func (s *Store) Save(ctx context.Context, owner, name string, st filter.State) (SavedView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SavedView{}, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := record{
		ID:        s.newID(),
		Name:      name,
		Query:     filter.Encode(st),
		CreatedAt: s.now().UTC(),
	}

	existing, ok := s.load(ctx, owner)
	if !ok {
		return r.view(), nil
	}

	records := append([]record{r}, existing...)
	if len(records) > s.limit {
		records = records[:s.limit]
	}
	s.persist(ctx, owner, records)

	return r.view(), nil
}

func (s *Store) Remove(ctx context.Context, owner, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, _ := s.load(ctx, owner)
	for i, r := range records {
		if r.ID == id {
			records = append(records[:i], records[i+1:]...)
			if len(records) == 0 {
				s.clear(ctx, owner)
			} else {
				s.persist(ctx, owner, records)
			}
			return true
		}
	}
	return false
}

// Touch stamps LastUsedAt. Position in the list is unchanged, so a touched
// view is still evicted in insertion order.
func (s *Store) Touch(ctx context.Context, owner, id string) (SavedView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, _ := s.load(ctx, owner)
	for i := range records {
		if records[i].ID == id {
			usedAt := s.now().UTC()
			records[i].LastUsedAt = &usedAt
			s.persist(ctx, owner, records)
			return records[i].view(), true
		}
	}
	return SavedView{}, false
}

// load reports false only when the backend read failed. A missing or corrupt
// document is an empty list that may be overwritten.
func (s *Store) load(ctx context.Context, owner string) ([]record, bool) {
	data, err := s.kv.Get(ctx, storageKey(owner))
	if err != nil {
		slog.Warn("Failed to read saved views", "owner", owner, "error", err)
		return nil, false
	}
	if len(data) == 0 {
		return nil, true
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		slog.Warn("Discarding unreadable saved views", "owner", owner, "error", err)
		return nil, true
	}
	return records, true
}

func (s *Store) persist(ctx context.Context, owner string, records []record) {
	data, err := json.Marshal(records)
	if err != nil {
		slog.Warn("Failed to encode saved views", "owner", owner, "error", err)
		return
	}
	if err := s.kv.Set(ctx, storageKey(owner), data); err != nil {
		slog.Warn("Failed to write saved views", "owner", owner, "error", err)
	}
}

func (s *Store) clear(ctx context.Context, owner string) {
	if err := s.kv.Delete(ctx, storageKey(owner)); err != nil {
		slog.Warn("Failed to delete saved views", "owner", owner, "error", err)
	}
}

func storageKey(owner string) string {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		owner = DefaultOwner
	}
	return keyPrefix + owner
}
