package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"teletext/models"
)

// DefaultFeeds seed the registry the first time it is loaded.
var DefaultFeeds = []string{
	"https://feeds.bbci.co.uk/news/rss.xml",
	"https://rss.nytimes.com/services/xml/rss/nyt/HomePage.xml",
	"https://feeds.skynews.com/feeds/rss/home.xml",
	"https://api.sr.se/api/rss/program/2054",
}

// DefaultSettings seed the settings document the first time it is loaded.
func DefaultSettings() models.Settings {
	return models.Settings{
		Theme:                "dark",
		ArticlesPerPage:      8,
		AutoRefreshSeconds:   0,
		Font:                 "default",
		Layout:               "default",
		InfiniteScroll:       false,
		NotificationsEnabled: false,
		KeywordAlerts:        []string{},
	}
}

// Config is the runtime configuration, loadable from a TOML file. Values the
// file omits keep their defaults; CLI flags override on top.
type Config struct {
	DataDir             string   `toml:"data_dir"`
	Port                int      `toml:"port"`
	StaticDir           string   `toml:"static_dir"`
	FetchTimeoutSeconds int      `toml:"fetch_timeout_seconds"`
	FetchWorkers        int      `toml:"fetch_workers"`
	SeedFeeds           []string `toml:"seed_feeds"`
}

func Default() *Config {
	return &Config{
		DataDir:             "data",
		Port:                8000,
		FetchTimeoutSeconds: 15,
		FetchWorkers:        4,
		SeedFeeds:           DefaultFeeds,
	}
}

func LoadConfig(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return config, nil
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}
