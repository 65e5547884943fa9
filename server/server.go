// Package server exposes the aggregation core over an HTTP JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"teletext/feeds"
	"teletext/fetcher"
	"teletext/models"
)

// ArticleFetcher is what the articles endpoint needs from the aggregation
// pipeline; tests substitute a fake.
type ArticleFetcher interface {
	FetchAll(ctx context.Context) []models.Article
}

type HealthReader interface {
	GetAll() map[string]models.FeedHealthRecord
}

// ServerConfig wires the core components into the HTTP layer.
type ServerConfig struct {
	Registry  *feeds.Registry
	Bookmarks *feeds.URLSet
	ReadList  *feeds.URLSet
	Settings  *feeds.SettingsStore
	Health    HealthReader
	Fetcher   ArticleFetcher

	// StaticDir optionally serves a frontend at /.
	StaticDir string
}

type urlRequest struct {
	URL string `json:"url"`
}

type opmlImportRequest struct {
	Content string `json:"content"`
}

func detail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"detail": message})
}

// Server returns a fiber.App serving the teletext news API.
func Server(config *ServerConfig) *fiber.App {

	app := fiber.New()

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"latency": time.Since(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	api.Get("/articles", func(c *fiber.Ctx) error {
		articles := config.Fetcher.FetchAll(c.Context())
		articles = feeds.Annotate(articles, config.Bookmarks.Members(), config.ReadList.Members())
		if articles == nil {
			articles = []models.Article{}
		}
		return c.JSON(fiber.Map{"articles": articles, "count": len(articles)})
	})

	api.Get("/feeds", func(c *fiber.Ctx) error {
		subs := config.Registry.List()
		if subs == nil {
			subs = []models.FeedSubscription{}
		}
		return c.JSON(fiber.Map{"feeds": subs})
	})

	api.Post("/feeds", func(c *fiber.Ctx) error {
		var req urlRequest
		if err := c.BodyParser(&req); err != nil || req.URL == "" {
			return detail(c, fiber.StatusBadRequest, "Missing feed URL")
		}
		added, err := config.Registry.Add(req.URL)
		if err != nil {
			return detail(c, fiber.StatusInternalServerError, "Failed to save feeds")
		}
		if !added {
			return detail(c, fiber.StatusConflict, "Feed already exists")
		}
		return c.JSON(fiber.Map{"ok": true})
	})

	api.Post("/feeds/delete", func(c *fiber.Ctx) error {
		var req urlRequest
		if err := c.BodyParser(&req); err != nil || req.URL == "" {
			return detail(c, fiber.StatusBadRequest, "Missing feed URL")
		}
		removed, err := config.Registry.Remove(req.URL)
		if err != nil {
			return detail(c, fiber.StatusInternalServerError, "Failed to save feeds")
		}
		if !removed {
			return detail(c, fiber.StatusNotFound, "Feed not found")
		}
		return c.JSON(fiber.Map{"ok": true})
	})

	api.Post("/feeds/toggle", func(c *fiber.Ctx) error {
		var req urlRequest
		if err := c.BodyParser(&req); err != nil || req.URL == "" {
			return detail(c, fiber.StatusBadRequest, "Missing feed URL")
		}
		active, found, err := config.Registry.Toggle(req.URL)
		if err != nil {
			return detail(c, fiber.StatusInternalServerError, "Failed to save feeds")
		}
		if !found {
			return detail(c, fiber.StatusNotFound, "Feed not found")
		}
		return c.JSON(fiber.Map{"ok": true, "active": active})
	})

	api.Post("/feeds/discover", func(c *fiber.Ctx) error {
		var req urlRequest
		if err := c.BodyParser(&req); err != nil || req.URL == "" {
			return detail(c, fiber.StatusBadRequest, "Missing page URL")
		}
		return c.JSON(fiber.Map{"feeds": feeds.DiscoverFeeds(req.URL)})
	})

	api.Get("/feeds/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"health": config.Health.GetAll()})
	})

	api.Post("/feeds/opml/import", func(c *fiber.Ctx) error {
		var req opmlImportRequest
		if err := c.BodyParser(&req); err != nil {
			return detail(c, fiber.StatusBadRequest, "Missing OPML content")
		}
		imported, err := config.Registry.ImportURLs(feeds.ImportOPML(req.Content))
		if err != nil {
			return detail(c, fiber.StatusInternalServerError, "Failed to save feeds")
		}
		subs := config.Registry.List()
		return c.JSON(fiber.Map{"imported": imported, "feeds": subs})
	})

	api.Get("/feeds/opml/export", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"opml": feeds.ExportOPML(config.Registry.URLs())})
	})

	registerURLSet(api, "/bookmarks", "bookmarks", config.Bookmarks,
		"Bookmark already exists", "Bookmark not found")
	registerURLSet(api, "/read", "read", config.ReadList,
		"Already marked as read", "Not in read list")

	api.Get("/settings", func(c *fiber.Ctx) error {
		return c.JSON(config.Settings.Get())
	})

	api.Put("/settings", func(c *fiber.Ctx) error {
		var updates map[string]interface{}
		if err := json.Unmarshal(c.Body(), &updates); err != nil {
			return detail(c, fiber.StatusBadRequest, "Invalid settings body")
		}
		updated, err := config.Settings.Update(updates)
		if err != nil {
			var validationErr *feeds.ValidationError
			if errors.As(err, &validationErr) {
				return detail(c, fiber.StatusUnprocessableEntity, validationErr.Message)
			}
			return detail(c, fiber.StatusInternalServerError, "Failed to save settings")
		}
		return c.JSON(updated)
	})

	if config.StaticDir != "" {
		app.Static("/", config.StaticDir)
	}

	return app
}

// registerURLSet wires the shared list/add/delete shape used by both the
// bookmarks and read-tracking endpoints.
func registerURLSet(api fiber.Router, path, key string, set *feeds.URLSet, dupMsg, missingMsg string) {
	api.Get(path, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{key: set.List()})
	})

	api.Post(path, func(c *fiber.Ctx) error {
		var req urlRequest
		if err := c.BodyParser(&req); err != nil || req.URL == "" {
			return detail(c, fiber.StatusBadRequest, "Missing URL")
		}
		if !set.Add(req.URL) {
			return detail(c, fiber.StatusConflict, dupMsg)
		}
		return c.JSON(fiber.Map{"ok": true})
	})

	api.Post(path+"/delete", func(c *fiber.Ctx) error {
		var req urlRequest
		if err := c.BodyParser(&req); err != nil || req.URL == "" {
			return detail(c, fiber.StatusBadRequest, "Missing URL")
		}
		if !set.Remove(req.URL) {
			return detail(c, fiber.StatusNotFound, missingMsg)
		}
		return c.JSON(fiber.Map{"ok": true})
	})
}

var _ ArticleFetcher = (*fetcher.Fetcher)(nil)
