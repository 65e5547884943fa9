package feeds_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teletext/feeds"
	"teletext/models"
	"teletext/store"
)

func newRegistry(t *testing.T, seeds []string) *feeds.Registry {
	t.Helper()
	return feeds.NewRegistry(store.NewMemoryStore(), seeds)
}

func TestRegistryAddIsIdempotent(t *testing.T) {
	registry := newRegistry(t, nil)

	added, err := registry.Add("https://example.com/feed.xml")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = registry.Add("https://example.com/feed.xml")
	require.NoError(t, err)
	assert.False(t, added)

	assert.Len(t, registry.List(), 1)
}

func TestRegistryURLEqualityIsExact(t *testing.T) {
	registry := newRegistry(t, nil)

	added, err := registry.Add("http://x")
	require.NoError(t, err)
	assert.True(t, added)

	// Trailing slash is a different URL; no normalization happens.
	added, err = registry.Add("http://x/")
	require.NoError(t, err)
	assert.True(t, added)

	assert.Len(t, registry.List(), 2)
}

func TestRegistryRemove(t *testing.T) {
	registry := newRegistry(t, nil)

	_, err := registry.Add("https://example.com/a.xml")
	require.NoError(t, err)

	removed, err := registry.Remove("https://example.com/a.xml")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = registry.Remove("https://example.com/a.xml")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRegistryToggleIsItsOwnInverse(t *testing.T) {
	registry := newRegistry(t, nil)

	_, err := registry.Add("https://example.com/a.xml")
	require.NoError(t, err)

	active, found, err := registry.Toggle("https://example.com/a.xml")
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, active)

	active, found, err = registry.Toggle("https://example.com/a.xml")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, active)
}

func TestRegistryToggleUnknownURL(t *testing.T) {
	registry := newRegistry(t, nil)

	_, found, err := registry.Toggle("https://nowhere.example/feed.xml")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRegistryActiveURLsKeepOrder(t *testing.T) {
	registry := newRegistry(t, nil)

	urls := []string{
		"https://example.com/a.xml",
		"https://example.com/b.xml",
		"https://example.com/c.xml",
	}
	for _, url := range urls {
		_, err := registry.Add(url)
		require.NoError(t, err)
	}

	_, _, err := registry.Toggle("https://example.com/b.xml")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/a.xml",
		"https://example.com/c.xml",
	}, registry.ActiveURLs())
}

func TestRegistrySeedsDefaultsOnFirstLoad(t *testing.T) {
	registry := newRegistry(t, []string{"https://seed.example/rss.xml"})

	subs := registry.List()
	require.Len(t, subs, 1)
	assert.Equal(t, models.FeedSubscription{URL: "https://seed.example/rss.xml", Active: true}, subs[0])
}

func TestRegistryUpgradesLegacyFormat(t *testing.T) {
	documents := store.NewMemoryStore()
	require.NoError(t, documents.Save("feeds", []string{
		"https://legacy.example/a.xml",
		"https://legacy.example/b.xml",
	}))

	registry := feeds.NewRegistry(documents, nil)

	subs := registry.List()
	require.Len(t, subs, 2)
	for _, sub := range subs {
		assert.True(t, sub.Active)
		assert.NotEmpty(t, sub.URL)
	}
	assert.Equal(t, "https://legacy.example/a.xml", subs[0].URL)
	assert.Equal(t, "https://legacy.example/b.xml", subs[1].URL)

	// A mutation after the upgrade must persist only clean entries
	_, err := registry.Add("https://legacy.example/c.xml")
	require.NoError(t, err)

	subs = registry.List()
	require.Len(t, subs, 3)
	for _, sub := range subs {
		assert.NotEmpty(t, sub.URL)
	}
}

func TestRegistryImportURLs(t *testing.T) {
	registry := newRegistry(t, nil)

	_, err := registry.Add("https://example.com/a.xml")
	require.NoError(t, err)

	imported, err := registry.ImportURLs([]string{
		"https://example.com/a.xml", // duplicate
		"https://example.com/b.xml",
		"https://example.com/b.xml", // duplicate inside input
		"https://example.com/c.xml",
		"",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, imported)
	assert.Len(t, registry.List(), 3)
}
