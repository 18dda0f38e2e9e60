package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"tcorea.dev/internal/models"
)

// Config holds all application configuration
type Config struct {
	ServerAddr string
	DataPath   string
	DataURL    string
	MediaPath  string
	SitePath   string
	LogLevel   string
	LogFormat  string
	ViewTTL    time.Duration
	WatchData  bool
	Site       *SiteConfig
}

// SiteConfig is the content side of the configuration, read from site.yaml
type SiteConfig struct {
	Title  string                        `yaml:"title"`
	About  string                        `yaml:"about"`
	Pinned []PinnedLink                  `yaml:"pinned"`
	Reveal RevealConfig                  `yaml:"reveal"`
	Media  map[string]models.MediaBundle `yaml:"media"`
	Links  []ContactLink                 `yaml:"links"`
}

// PinnedLink is a sidebar entry shown above the collapsible groups
type PinnedLink struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// ContactLink is shown on the about page
type ContactLink struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// RevealConfig sizes the gallery's visible window
type RevealConfig struct {
	Initial int           `yaml:"initial"`
	Step    int           `yaml:"step"`
	Settle  time.Duration `yaml:"settle"`
}

// Defaults returns the configuration used when nothing overrides it
func Defaults() *Config {
	return &Config{
		ServerAddr: ":8080",
		DataPath:   "data/data.json",
		MediaPath:  "public",
		SitePath:   "site.yaml",
		LogLevel:   "info",
		LogFormat:  "json",
		ViewTTL:    30 * time.Minute,
		WatchData:  true,
		Site:       DefaultSite(),
	}
}

// DefaultSite returns the site settings used without a site.yaml
func DefaultSite() *SiteConfig {
	return &SiteConfig{
		Title: "Portfolio",
		Reveal: RevealConfig{
			Initial: 4,
			Step:    4,
			Settle:  500 * time.Millisecond,
		},
		Media: map[string]models.MediaBundle{},
	}
}

// Load builds the configuration from defaults, the site file and the environment.
// sitePath overrides SITE_CONFIG when not empty. A missing site file is not an error.
func Load(sitePath string) (*Config, error) {
	cfg := Defaults()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if sitePath != "" {
		cfg.SitePath = sitePath
	}

	site, err := LoadSite(cfg.SitePath)
	if err != nil {
		return nil, err
	}
	cfg.Site = site

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.ServerAddr = v
	} else if port := os.Getenv("PORT"); port != "" {
		c.ServerAddr = ":" + port
	}
	if v := os.Getenv("DATA_PATH"); v != "" {
		c.DataPath = v
	}
	if v := os.Getenv("DATA_URL"); v != "" {
		c.DataURL = v
	}
	if v := os.Getenv("MEDIA_PATH"); v != "" {
		c.MediaPath = v
	}
	if v := os.Getenv("SITE_CONFIG"); v != "" {
		c.SitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("VIEW_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid VIEW_TTL %q: %w", v, err)
		}
		c.ViewTTL = d
	}
	if v := os.Getenv("WATCH_DATA"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid WATCH_DATA %q: %w", v, err)
		}
		c.WatchData = b
	}
	return nil
}

// LoadSite reads site.yaml over the default site settings
func LoadSite(path string) (*SiteConfig, error) {
	site := DefaultSite()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return site, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, site); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if site.Media == nil {
		site.Media = map[string]models.MediaBundle{}
	}
	for id, b := range site.Media {
		if b.Video != "" && b.VideoType == "" {
			b.VideoType = "video/mp4"
			site.Media[id] = b
		}
	}
	return site, nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	if c.DataPath == "" && c.DataURL == "" {
		return errors.New("one of DATA_PATH or DATA_URL is required")
	}
	if c.ViewTTL <= 0 {
		return fmt.Errorf("VIEW_TTL must be positive, got %s", c.ViewTTL)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	r := c.Site.Reveal
	if r.Initial <= 0 || r.Step <= 0 {
		return fmt.Errorf("reveal sizes must be positive, got initial=%d step=%d", r.Initial, r.Step)
	}
	if r.Settle < 0 {
		return fmt.Errorf("reveal settle must not be negative, got %s", r.Settle)
	}
	for i, p := range c.Site.Pinned {
		if p.ID == "" {
			return fmt.Errorf("pinned[%d]: id is required", i)
		}
	}
	return nil
}
