package fetcher

import (
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"teletext/models"
	"teletext/store"
)

const healthDoc = "feed_health"

const maxErrorMessageLen = 200

// HealthTracker keeps per-feed success/error statistics keyed by feed URL.
// Recording is best-effort telemetry: persistence failures are logged and
// never reach the caller. Records are never pruned, so a removed feed keeps
// its history.
type HealthTracker struct {
	mu    sync.Mutex
	store store.Store
	now   func() time.Time
}

func NewHealthTracker(s store.Store) *HealthTracker {
	return &HealthTracker{store: s, now: time.Now}
}

func (h *HealthTracker) load() map[string]models.FeedHealthRecord {
	health := make(map[string]models.FeedHealthRecord)
	if err := h.store.Load(healthDoc, &health); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.WithFields(log.Fields{"error": err}).Warn("Unreadable feed health document")
		}
		return make(map[string]models.FeedHealthRecord)
	}
	return health
}

func (h *HealthTracker) save(health map[string]models.FeedHealthRecord) {
	if err := h.store.Save(healthDoc, health); err != nil {
		log.WithFields(log.Fields{"error": err}).Warn("Failed to save feed health")
	}
}

// RecordSuccess upserts the record for url: last_success=now, the article
// count, and a reset error counter.
func (h *HealthTracker) RecordSuccess(url string, articleCount int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	health := h.load()
	record := health[url]
	now := h.now().UTC()
	record.LastSuccess = &now
	record.ArticleCount = articleCount
	record.ErrorCount = 0
	health[url] = record
	h.save(health)
}

// RecordError upserts the record for url: last_error=now, an incremented
// error counter and the message truncated to 200 characters.
func (h *HealthTracker) RecordError(url, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	health := h.load()
	record := health[url]
	now := h.now().UTC()
	record.LastError = &now
	record.ErrorCount++
	if runes := []rune(message); len(runes) > maxErrorMessageLen {
		message = string(runes[:maxErrorMessageLen])
	}
	record.ErrorMessage = message
	health[url] = record
	h.save(health)
}

// GetAll returns every known health record keyed by feed URL.
func (h *HealthTracker) GetAll() map[string]models.FeedHealthRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load()
}
