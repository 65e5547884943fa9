// Package feeds manages the feed registry and the per-user document stores
// that hang off it: bookmarks, read tracking and settings.
package feeds

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"teletext/models"
	"teletext/store"
)

const registryDoc = "feeds"

// Registry is the ordered collection of feed subscriptions and the single
// source of truth for which URLs get fetched. URLs are compared by exact
// string equality; no normalization of scheme, case or trailing slashes.
type Registry struct {
	store store.Store
	seeds []string
}

func NewRegistry(s store.Store, seeds []string) *Registry {
	return &Registry{store: s, seeds: seeds}
}

// load reads the registry, transparently upgrading the legacy on-disk format
// (a flat array of URL strings) to subscription records with active=true.
// A missing document is seeded with the default feeds.
func (r *Registry) load() []models.FeedSubscription {
	var subs []models.FeedSubscription
	err := r.store.Load(registryDoc, &subs)
	if err == nil {
		return subs
	}

	if errors.Is(err, store.ErrNotFound) {
		subs = r.seedSubscriptions()
		if saveErr := r.store.Save(registryDoc, subs); saveErr != nil {
			log.WithFields(log.Fields{"error": saveErr}).Warn("Failed to seed feed registry")
		}
		return subs
	}

	// Decode failed: the document may still be in the legacy format.
	// The failed typed decode can leave zero-value elements behind, so
	// rebuild from scratch.
	var urls []string
	if legacyErr := r.store.Load(registryDoc, &urls); legacyErr == nil {
		subs = nil
		for _, url := range urls {
			subs = append(subs, models.FeedSubscription{URL: url, Active: true})
		}
		return subs
	}

	log.WithFields(log.Fields{"error": err}).Warn("Unreadable feed registry, using defaults")
	return r.seedSubscriptions()
}

func (r *Registry) seedSubscriptions() []models.FeedSubscription {
	subs := make([]models.FeedSubscription, 0, len(r.seeds))
	for _, url := range r.seeds {
		subs = append(subs, models.FeedSubscription{URL: url, Active: true})
	}
	return subs
}

func (r *Registry) save(subs []models.FeedSubscription) error {
	// Unlike the best-effort stores, a lost registry write is user-visible
	// data loss, so the error goes back to the caller.
	return r.store.Save(registryDoc, subs)
}

// List returns all subscriptions in registry order.
func (r *Registry) List() []models.FeedSubscription {
	return r.load()
}

// Add appends the URL with active=true. Returns false if already present.
func (r *Registry) Add(url string) (bool, error) {
	subs := r.load()
	for _, sub := range subs {
		if sub.URL == url {
			return false, nil
		}
	}
	subs = append(subs, models.FeedSubscription{URL: url, Active: true})
	if err := r.save(subs); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes the matching subscription. Returns false if absent.
func (r *Registry) Remove(url string) (bool, error) {
	subs := r.load()
	for i, sub := range subs {
		if sub.URL == url {
			subs = append(subs[:i], subs[i+1:]...)
			if err := r.save(subs); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Toggle flips the active flag. The second return reports whether the URL
// was found at all.
func (r *Registry) Toggle(url string) (active bool, found bool, err error) {
	subs := r.load()
	for i, sub := range subs {
		if sub.URL == url {
			subs[i].Active = !sub.Active
			if err := r.save(subs); err != nil {
				return false, true, err
			}
			return subs[i].Active, true, nil
		}
	}
	return false, false, nil
}

// ActiveURLs returns the URLs flagged active, in registry order.
func (r *Registry) ActiveURLs() []string {
	var urls []string
	for _, sub := range r.load() {
		if sub.Active {
			urls = append(urls, sub.URL)
		}
	}
	return urls
}

// URLs returns every registered URL regardless of the active flag.
func (r *Registry) URLs() []string {
	subs := r.load()
	urls := make([]string, 0, len(subs))
	for _, sub := range subs {
		urls = append(urls, sub.URL)
	}
	return urls
}

// ImportURLs adds every URL not already present and returns how many were
// added. Duplicates inside the input collapse to one.
func (r *Registry) ImportURLs(urls []string) (int, error) {
	subs := r.load()
	known := make(map[string]bool, len(subs))
	for _, sub := range subs {
		known[sub.URL] = true
	}

	imported := 0
	for _, url := range urls {
		if url == "" || known[url] {
			continue
		}
		subs = append(subs, models.FeedSubscription{URL: url, Active: true})
		known[url] = true
		imported++
	}

	if imported > 0 {
		if err := r.save(subs); err != nil {
			return 0, err
		}
	}
	return imported, nil
}
