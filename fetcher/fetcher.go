// Package fetcher implements the aggregation pipeline: fetch every active
// feed, normalize each one, record feed health, and merge the results into a
// single time-ordered article list.
package fetcher

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"teletext/models"
)

// FeedSource provides the URLs to aggregate, in a stable order.
type FeedSource interface {
	ActiveURLs() []string
}

// Fetcher aggregates all active feeds into one sorted article list. Feeds
// are fully independent, so they are fetched by a bounded worker pool; one
// hung or broken feed never blocks or corrupts the others.
type Fetcher struct {
	sources FeedSource
	health  *HealthTracker
	client  *http.Client
	timeout time.Duration
	workers int
}

func New(sources FeedSource, health *HealthTracker, timeout time.Duration, workers int) *Fetcher {
	if workers < 1 {
		workers = 1
	}
	return &Fetcher{
		sources: sources,
		health:  health,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		workers: workers,
	}
}

// fetchFeed downloads and parses one feed within the per-feed timeout.
func (f *Fetcher) fetchFeed(ctx context.Context, url string) (models.RawFeed, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	parser := gofeed.NewParser()
	parser.Client = f.client
	feed, err := parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return models.RawFeed{}, err
	}

	return models.RawFeed{
		Title: feed.Title,
		Entries: lo.Map(feed.Items, func(item *gofeed.Item, _ int) models.RawEntry {
			return models.RawEntry{
				Title:           item.Title,
				Summary:         item.Description,
				Description:     item.Content,
				Link:            item.Link,
				Published:       item.Published,
				Updated:         item.Updated,
				PublishedParsed: item.PublishedParsed,
				UpdatedParsed:   item.UpdatedParsed,
			}
		}),
	}, nil
}

// FetchAll aggregates every active feed and returns the merged list sorted
// newest-first, with undated articles last. Per-feed results are collected
// into slots indexed by registry order, so articles with equal timestamps
// keep a deterministic relative order regardless of worker scheduling.
func (f *Fetcher) FetchAll(ctx context.Context) []models.Article {
	started := time.Now()
	urls := f.sources.ActiveURLs()

	perFeed := make([][]models.Article, len(urls))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := f.workers
	if workers > len(urls) {
		workers = len(urls)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				perFeed[i] = f.fetchOne(ctx, urls[i])
			}
		}()
	}

	for i := range urls {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var combined []models.Article
	for _, articles := range perFeed {
		combined = append(combined, articles...)
	}
	sortArticles(combined)

	fetchDuration.Observe(time.Since(started).Seconds())
	log.WithFields(log.Fields{
		"feeds":    len(urls),
		"articles": len(combined),
		"elapsed":  time.Since(started),
	}).Info("Aggregation complete")

	return combined
}

// fetchOne handles the fetch boundary for a single feed: an error is
// recorded and yields no articles; a successful parse is a health success
// even when the feed has zero usable entries.
func (f *Fetcher) fetchOne(ctx context.Context, url string) []models.Article {
	raw, err := f.fetchFeed(ctx, url)
	if err != nil {
		log.WithFields(log.Fields{"url": url, "error": err}).Warn("Feed fetch failed")
		f.health.RecordError(url, err.Error())
		feedFetchErrors.Inc()
		return nil
	}

	articles := Normalize(url, raw)
	f.health.RecordSuccess(url, len(articles))
	feedFetchSuccesses.Inc()
	articlesFetched.Add(float64(len(articles)))
	return articles
}

// sortArticles orders descending by timestamp. Articles without a timestamp
// sort as oldest. The sort is stable, preserving feed order for ties.
func sortArticles(articles []models.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		a, b := articles[i].SortTime, articles[j].SortTime
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}
