package models

import "time"

// FeedSubscription is one entry in the feed registry.
type FeedSubscription struct {
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// FeedHealthRecord tracks rolling fetch statistics for one feed URL.
// A record is created on the first fetch attempt and never deleted, so
// removed feeds keep their history.
type FeedHealthRecord struct {
	LastSuccess  *time.Time `json:"last_success"`
	LastError    *time.Time `json:"last_error"`
	ArticleCount int        `json:"article_count"`
	ErrorCount   int        `json:"error_count"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// Article is the canonical article shape returned by the API.
// SortTime only orders the aggregated list and is never serialized.
type Article struct {
	Title      string     `json:"title"`
	Source     string     `json:"source"`
	Date       string     `json:"date"`
	Summary    string     `json:"summary"`
	URL        string     `json:"url"`
	Bookmarked bool       `json:"bookmarked"`
	Read       bool       `json:"read"`
	SortTime   *time.Time `json:"-"`
}

// RawFeed is the parsed representation of one remote feed as handed to the
// normalizer. Any of the entry fields may be empty or nil; RSS and Atom
// feeds in the wild omit most of them at one point or another.
type RawFeed struct {
	Title   string
	Entries []RawEntry
}

type RawEntry struct {
	Title           string
	Summary         string
	Description     string
	Link            string
	Published       string
	Updated         string
	PublishedParsed *time.Time
	UpdatedParsed   *time.Time
}

// Settings is the persisted user settings document.
type Settings struct {
	Theme                string   `json:"theme"`
	ArticlesPerPage      int      `json:"articles_per_page"`
	AutoRefreshSeconds   int      `json:"auto_refresh_seconds"`
	Font                 string   `json:"font"`
	Layout               string   `json:"layout"`
	InfiniteScroll       bool     `json:"infinite_scroll"`
	NotificationsEnabled bool     `json:"notifications_enabled"`
	KeywordAlerts        []string `json:"keyword_alerts"`
}
