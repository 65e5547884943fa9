package fetcher_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teletext/fetcher"
	"teletext/models"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestNormalizeSkipsEntriesWithoutTitle(t *testing.T) {
	raw := models.RawFeed{
		Title: "Example",
		Entries: []models.RawEntry{
			{Title: "", Summary: "no title here"},
			{Title: "   ", Summary: "whitespace title"},
			{Title: "kept"},
		},
	}

	articles := fetcher.Normalize("https://example.com/rss", raw)
	require.Len(t, articles, 1)
	assert.Equal(t, "kept", articles[0].Title)
}

func TestNormalizeEntryWithoutLink(t *testing.T) {
	raw := models.RawFeed{
		Title:   "Example",
		Entries: []models.RawEntry{{Title: "no link"}},
	}

	articles := fetcher.Normalize("https://example.com/rss", raw)
	require.Len(t, articles, 1)
	assert.Equal(t, "", articles[0].URL)
}

func TestNormalizeSummaryCleanup(t *testing.T) {
	tests := []struct {
		name     string
		entry    models.RawEntry
		expected string
	}{
		{
			name:     "tags stripped",
			entry:    models.RawEntry{Title: "t", Summary: "<p>Hello <b>world</b></p>"},
			expected: "Hello world",
		},
		{
			name:     "entities unescaped",
			entry:    models.RawEntry{Title: "t", Summary: "Fish &amp; chips &mdash; tasty"},
			expected: "Fish & chips — tasty",
		},
		{
			name:     "whitespace collapsed",
			entry:    models.RawEntry{Title: "t", Summary: "  spread \n\t over   lines  "},
			expected: "spread over lines",
		},
		{
			name:     "description fallback",
			entry:    models.RawEntry{Title: "t", Description: "<i>fallback</i> text"},
			expected: "fallback text",
		},
		{
			name:     "summary preferred over description",
			entry:    models.RawEntry{Title: "t", Summary: "summary", Description: "description"},
			expected: "summary",
		},
		{
			name:     "empty",
			entry:    models.RawEntry{Title: "t"},
			expected: "",
		},
		{
			name:     "script content removed",
			entry:    models.RawEntry{Title: "t", Summary: `before <script>alert("x")</script> after`},
			expected: "before after",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			articles := fetcher.Normalize("https://example.com/rss", models.RawFeed{
				Title:   "Example",
				Entries: []models.RawEntry{tt.entry},
			})
			require.Len(t, articles, 1)
			assert.Equal(t, tt.expected, articles[0].Summary)
		})
	}
}

func TestNormalizeSourceFallsBackToFeedURL(t *testing.T) {
	articles := fetcher.Normalize("https://example.com/rss", models.RawFeed{
		Entries: []models.RawEntry{{Title: "t"}},
	})
	require.Len(t, articles, 1)
	assert.Equal(t, "https://example.com/rss", articles[0].Source)

	articles = fetcher.Normalize("https://example.com/rss", models.RawFeed{
		Title:   "  Example News  ",
		Entries: []models.RawEntry{{Title: "t"}},
	})
	require.Len(t, articles, 1)
	assert.Equal(t, "Example News", articles[0].Source)
}

func TestNormalizeDateResolution(t *testing.T) {
	published := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	updated := time.Date(2024, 4, 2, 11, 45, 0, 0, time.UTC)

	tests := []struct {
		name     string
		entry    models.RawEntry
		expected *time.Time
	}{
		{
			name:     "published_parsed wins",
			entry:    models.RawEntry{Title: "t", PublishedParsed: timePtr(published), UpdatedParsed: timePtr(updated)},
			expected: timePtr(published),
		},
		{
			name:     "updated_parsed fallback",
			entry:    models.RawEntry{Title: "t", UpdatedParsed: timePtr(updated)},
			expected: timePtr(updated),
		},
		{
			name:     "no date at all",
			entry:    models.RawEntry{Title: "t"},
			expected: nil,
		},
		{
			name:     "unparseable free text",
			entry:    models.RawEntry{Title: "t", Published: "sometime last week"},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			articles := fetcher.Normalize("https://example.com/rss", models.RawFeed{
				Title:   "Example",
				Entries: []models.RawEntry{tt.entry},
			})
			require.Len(t, articles, 1)
			if tt.expected == nil {
				assert.Nil(t, articles[0].SortTime)
				assert.Equal(t, "Unknown date", articles[0].Date)
			} else {
				require.NotNil(t, articles[0].SortTime)
				assert.True(t, tt.expected.Equal(*articles[0].SortTime))
			}
		})
	}
}

func TestNormalizeFreeTextDateFallback(t *testing.T) {
	articles := fetcher.Normalize("https://example.com/rss", models.RawFeed{
		Title: "Example",
		Entries: []models.RawEntry{
			{Title: "t", Published: "Fri, 01 Mar 2024 10:30:00 +0000"},
		},
	})
	require.Len(t, articles, 1)
	require.NotNil(t, articles[0].SortTime)
	assert.Equal(t, 2024, articles[0].SortTime.Year())
	assert.Equal(t, time.March, articles[0].SortTime.Month())
}

func TestNormalizeDateDisplayFormat(t *testing.T) {
	published := time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)
	articles := fetcher.Normalize("https://example.com/rss", models.RawFeed{
		Title:   "Example",
		Entries: []models.RawEntry{{Title: "t", PublishedParsed: timePtr(published)}},
	})
	require.Len(t, articles, 1)
	assert.Equal(t, "Fri, 01 Mar 2024 09:05", articles[0].Date)
}

func TestNormalizePreservesEntryOrder(t *testing.T) {
	raw := models.RawFeed{
		Title: "Example",
		Entries: []models.RawEntry{
			{Title: "first"},
			{Title: "second"},
			{Title: "third"},
		},
	}

	articles := fetcher.Normalize("https://example.com/rss", raw)
	require.Len(t, articles, 3)
	assert.Equal(t, "first", articles[0].Title)
	assert.Equal(t, "second", articles[1].Title)
	assert.Equal(t, "third", articles[2].Title)
}
