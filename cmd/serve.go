package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"teletext/config"
	"teletext/feeds"
	"teletext/fetcher"
	"teletext/server"
	"teletext/store"
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a TOML configuration file",
			EnvVars: []string{"TELETEXT_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "data-dir",
			Aliases: []string{"d"},
			Usage:   "Directory holding the JSON documents",
			EnvVars: []string{"TELETEXT_DATA_DIR"},
		},
	}
}

// loadConfig merges the optional TOML file with CLI flag overrides.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := ctx.String("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if dir := ctx.String("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	if ctx.IsSet("port") {
		cfg.Port = ctx.Int("port")
	}
	if dir := ctx.String("static-dir"); dir != "" {
		cfg.StaticDir = dir
	}
	if ctx.IsSet("workers") {
		cfg.FetchWorkers = ctx.Int("workers")
	}
	return cfg, nil
}

// buildCore assembles the stores and pipeline every command works with.
func buildCore(cfg *config.Config) (*feeds.Registry, *fetcher.HealthTracker, *fetcher.Fetcher, store.Store) {
	documents := store.NewFileStore(cfg.DataDir)
	registry := feeds.NewRegistry(documents, cfg.SeedFeeds)
	health := fetcher.NewHealthTracker(documents)
	pipeline := fetcher.New(registry, health, cfg.FetchTimeout(), cfg.FetchWorkers)
	return registry, health, pipeline, documents
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the teletext news API",
		Description: `Starts the HTTP server that serves the article aggregation API
		along with feed, bookmark, read-state and settings management.

		Articles are fetched live from every active feed on each request;
		a broken feed is skipped and recorded in the feed health document.`,
		Flags: append(commonFlags(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   8000,
				Usage:   "Port to listen on",
				EnvVars: []string{"TELETEXT_PORT"},
			},
			&cli.StringFlag{
				Name:    "static-dir",
				Usage:   "Directory with the frontend assets to serve at /",
				EnvVars: []string{"TELETEXT_STATIC_DIR"},
			},
			&cli.IntFlag{
				Name:    "workers",
				Value:   4,
				Usage:   "Number of concurrent feed fetchers",
				EnvVars: []string{"TELETEXT_WORKERS"},
			},
		),
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			registry, health, pipeline, documents := buildCore(cfg)

			app := server.Server(&server.ServerConfig{
				Registry:  registry,
				Bookmarks: feeds.NewBookmarks(documents),
				ReadList:  feeds.NewReadList(documents),
				Settings:  feeds.NewSettingsStore(documents, config.DefaultSettings()),
				Health:    health,
				Fetcher:   pipeline,
				StaticDir: cfg.StaticDir,
			})

			// Graceful shutdown
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt)
			go func() {
				<-c
				fmt.Println("Gracefully shutting down...")
				if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
					log.Errorf("Error shutting down server: %v", err)
				}
			}()

			log.WithFields(log.Fields{
				"port":     cfg.Port,
				"data_dir": cfg.DataDir,
			}).Info("Starting server")

			return app.Listen(fmt.Sprintf(":%d", cfg.Port))
		},
	}
}
