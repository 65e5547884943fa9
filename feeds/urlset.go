package feeds

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"teletext/models"
	"teletext/store"
)

// URLSet is an ordered, duplicate-free list of article URLs backed by one
// JSON document. Bookmarks and the read tracker are both URLSets.
//
// Writes are best-effort: losing a bookmark on a full disk is annoying but
// not correctness-critical, so save failures are logged and swallowed.
type URLSet struct {
	store store.Store
	doc   string
}

func NewBookmarks(s store.Store) *URLSet {
	return &URLSet{store: s, doc: "bookmarks"}
}

func NewReadList(s store.Store) *URLSet {
	return &URLSet{store: s, doc: "read"}
}

func (u *URLSet) load() []string {
	var urls []string
	if err := u.store.Load(u.doc, &urls); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.WithFields(log.Fields{"doc": u.doc, "error": err}).Warn("Unreadable URL list, starting empty")
		}
		return []string{}
	}
	return urls
}

func (u *URLSet) save(urls []string) {
	if err := u.store.Save(u.doc, urls); err != nil {
		log.WithFields(log.Fields{"doc": u.doc, "error": err}).Warn("Failed to save URL list")
	}
}

// List returns the URLs in insertion order.
func (u *URLSet) List() []string {
	return u.load()
}

// Add appends the URL. Returns false if it is already present.
func (u *URLSet) Add(url string) bool {
	urls := u.load()
	for _, existing := range urls {
		if existing == url {
			return false
		}
	}
	u.save(append(urls, url))
	return true
}

// Remove deletes the URL. Returns false if it was not present.
func (u *URLSet) Remove(url string) bool {
	urls := u.load()
	for i, existing := range urls {
		if existing == url {
			u.save(append(urls[:i], urls[i+1:]...))
			return true
		}
	}
	return false
}

// Members returns the set as a lookup map for the article overlay.
func (u *URLSet) Members() map[string]bool {
	urls := u.load()
	members := make(map[string]bool, len(urls))
	for _, url := range urls {
		members[url] = true
	}
	return members
}

// Annotate marks each article with bookmarked/read flags by exact URL
// membership. Pure annotation; the underlying stores are not touched.
func Annotate(articles []models.Article, bookmarked, read map[string]bool) []models.Article {
	for i := range articles {
		articles[i].Bookmarked = bookmarked[articles[i].URL]
		articles[i].Read = read[articles[i].URL]
	}
	return articles
}
