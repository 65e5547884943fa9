package fetcher

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/microcosm-cc/bluemonday"

	"teletext/models"
)

const unknownDate = "Unknown date"

// displayLayout matches the classic RSS pubDate style without seconds.
const displayLayout = "Mon, 02 Jan 2006 15:04"

var (
	stripPolicy  = bluemonday.StrictPolicy()
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// cleanText strips all markup, unescapes HTML entities and collapses runs
// of whitespace to single spaces.
func cleanText(raw string) string {
	if raw == "" {
		return ""
	}
	cleaned := stripPolicy.Sanitize(raw)
	cleaned = html.UnescapeString(cleaned)
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// entryTime resolves an entry's timestamp. Pre-parsed publish/update times
// win; failing those, the free-text published/updated fields are parsed as
// RFC-2822-style dates. Entries with no parseable date get nil.
func entryTime(entry models.RawEntry) *time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed
	}
	if entry.UpdatedParsed != nil {
		return entry.UpdatedParsed
	}
	for _, raw := range []string{entry.Published, entry.Updated} {
		if raw == "" {
			continue
		}
		if parsed, err := dateparse.ParseLocal(raw); err == nil {
			return &parsed
		}
	}
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return unknownDate
	}
	return t.Format(displayLayout)
}

// Normalize converts one raw feed into normalized articles, preserving the
// feed's own entry order. Entries without a title are dropped. The source
// label is the feed title, falling back to the feed URL.
func Normalize(feedURL string, feed models.RawFeed) []models.Article {
	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = feedURL
	}

	var articles []models.Article
	for _, entry := range feed.Entries {
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			continue
		}

		summary := entry.Summary
		if summary == "" {
			summary = entry.Description
		}

		t := entryTime(entry)
		articles = append(articles, models.Article{
			Title:    title,
			Source:   source,
			Date:     formatDate(t),
			Summary:  cleanText(summary),
			URL:      strings.TrimSpace(entry.Link),
			SortTime: t,
		})
	}
	return articles
}
