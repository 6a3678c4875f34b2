package views

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/content-comb/app/filter"
)

type failingKV struct{}

func (failingKV) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("storage unavailable")
}

func (failingKV) Set(context.Context, string, []byte) error {
	return errors.New("quota exceeded")
}

func (failingKV) Delete(context.Context, string) error {
	return errors.New("storage unavailable")
}

// flakyKV fails the next failGets reads and otherwise delegates to MemoryKV.
type flakyKV struct {
	*MemoryKV
	failGets int
}

func (f *flakyKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.failGets > 0 {
		f.failGets--
		return nil, errors.New("connection reset")
	}
	return f.MemoryKV.Get(ctx, key)
}

func newTestStore(kv KV) (*Store, *time.Time) {
	clock := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	seq := 0

	store := NewStore(kv)
	store.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	store.newID = func() string {
		seq++
		return fmt.Sprintf("view-%02d", seq)
	}
	return store, &clock
}

func names(views []SavedView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Name
	}
	return out
}

func TestStore_SaveAndList(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(NewMemoryKV())

	st := filter.State{Categories: []string{"kvkk"}, Search: "transfer"}
	saved, err := store.Save(ctx, "client-a", "  KVKK transfers ", st)
	require.NoError(t, err)

	assert.Equal(t, "view-01", saved.ID)
	assert.Equal(t, "KVKK transfers", saved.Name)
	assert.Equal(t, "areas=kvkk&q=transfer", saved.Query)
	assert.Equal(t, st, saved.Filters)
	assert.Nil(t, saved.LastUsedAt)

	_, err = store.Save(ctx, "client-a", "Second", filter.State{})
	require.NoError(t, err)

	views := store.List(ctx, "client-a")
	assert.Equal(t, []string{"Second", "KVKK transfers"}, names(views))
	assert.Equal(t, st, views[1].Filters)
	assert.True(t, saved.CreatedAt.Equal(views[1].CreatedAt))
}

func TestStore_SaveRequiresName(t *testing.T) {
	store, _ := newTestStore(NewMemoryKV())

	_, err := store.Save(context.Background(), "client-a", "   ", filter.State{})
	assert.ErrorIs(t, err, ErrNameRequired)
	assert.Empty(t, store.List(context.Background(), "client-a"))
}

func TestStore_OwnersAreIsolated(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(NewMemoryKV())

	_, err := store.Save(ctx, "client-a", "Mine", filter.State{})
	require.NoError(t, err)
	_, err = store.Save(ctx, "", "Anonymous", filter.State{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Mine"}, names(store.List(ctx, "client-a")))
	assert.Equal(t, []string{"Anonymous"}, names(store.List(ctx, DefaultOwner)))
	assert.Empty(t, store.List(ctx, "client-b"))
}

func TestStore_EvictsOldestByInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(NewMemoryKV())

	var first SavedView
	for i := 1; i <= MaxViews; i++ {
		v, err := store.Save(ctx, "client-a", fmt.Sprintf("view %d", i), filter.State{})
		require.NoError(t, err)
		if i == 1 {
			first = v
		}
	}
	require.Len(t, store.List(ctx, "client-a"), MaxViews)

	// recent use does not protect the oldest entry
	_, ok := store.Touch(ctx, "client-a", first.ID)
	require.True(t, ok)

	_, err := store.Save(ctx, "client-a", "view 11", filter.State{})
	require.NoError(t, err)

	views := store.List(ctx, "client-a")
	require.Len(t, views, MaxViews)
	assert.Equal(t, "view 11", views[0].Name)
	assert.Equal(t, "view 2", views[MaxViews-1].Name)

	_, ok = store.Get(ctx, "client-a", first.ID)
	assert.False(t, ok)
}

func TestStore_TouchKeepsPosition(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(NewMemoryKV())

	older, err := store.Save(ctx, "client-a", "Older", filter.State{})
	require.NoError(t, err)
	_, err = store.Save(ctx, "client-a", "Newer", filter.State{})
	require.NoError(t, err)

	touched, ok := store.Touch(ctx, "client-a", older.ID)
	require.True(t, ok)
	require.NotNil(t, touched.LastUsedAt)
	assert.True(t, touched.LastUsedAt.Equal(*clock))

	views := store.List(ctx, "client-a")
	assert.Equal(t, []string{"Newer", "Older"}, names(views))
	require.NotNil(t, views[1].LastUsedAt)
	assert.Nil(t, views[0].LastUsedAt)

	_, ok = store.Touch(ctx, "client-a", "missing")
	assert.False(t, ok)
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(NewMemoryKV())

	a, err := store.Save(ctx, "client-a", "A", filter.State{})
	require.NoError(t, err)
	_, err = store.Save(ctx, "client-a", "B", filter.State{})
	require.NoError(t, err)

	assert.True(t, store.Remove(ctx, "client-a", a.ID))
	assert.False(t, store.Remove(ctx, "client-a", a.ID))
	assert.Equal(t, []string{"B"}, names(store.List(ctx, "client-a")))
}

func TestStore_StorageFailuresDegradeToEmpty(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(failingKV{})

	saved, err := store.Save(ctx, "client-a", "Unpersisted", filter.State{Types: []string{"news"}})
	require.NoError(t, err)
	assert.Equal(t, "Unpersisted", saved.Name)

	assert.Empty(t, store.List(ctx, "client-a"))
	assert.False(t, store.Remove(ctx, "client-a", saved.ID))
	_, ok := store.Touch(ctx, "client-a", saved.ID)
	assert.False(t, ok)
}

func TestStore_FailedReadDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	kv := &flakyKV{MemoryKV: NewMemoryKV()}
	store, _ := newTestStore(kv)

	for i := 1; i <= 5; i++ {
		_, err := store.Save(ctx, "client-a", fmt.Sprintf("v%d", i), filter.State{})
		require.NoError(t, err)
	}

	kv.failGets = 1
	saved, err := store.Save(ctx, "client-a", "v6", filter.State{Search: "merger"})
	require.NoError(t, err)
	assert.Equal(t, "v6", saved.Name)
	assert.Equal(t, "q=merger", saved.Query)

	assert.Equal(t, []string{"v5", "v4", "v3", "v2", "v1"}, names(store.List(ctx, "client-a")))
}

func TestStore_RemovingLastViewDeletesDocument(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store, _ := newTestStore(kv)

	saved, err := store.Save(ctx, "client-a", "Only", filter.State{})
	require.NoError(t, err)
	require.True(t, store.Remove(ctx, "client-a", saved.ID))

	value, err := kv.Get(ctx, storageKey("client-a"))
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestStore_CorruptDocumentIsDiscarded(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, storageKey("client-a"), []byte("{not json")))

	store, _ := newTestStore(kv)
	assert.Empty(t, store.List(ctx, "client-a"))

	_, err := store.Save(ctx, "client-a", "Fresh", filter.State{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Fresh"}, names(store.List(ctx, "client-a")))
}

func TestMemoryKV(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	value, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, value)

	input := []byte("payload")
	require.NoError(t, kv.Set(ctx, "key", input))
	input[0] = 'X'

	value, err = kv.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), value)
}
