package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Search    SearchConfig
	Browser   BrowserConfig
	Pipeline  PipelineConfig
	Archive   ArchiveConfig
	Scheduler SchedulerConfig
	Proxy     ProxyConfig
	PGURL     string
	DBPath    string
	LogLevel  string
	Sites     map[string]*SiteConfig
}

// SearchConfig drives the structured search-API tier.
type SearchConfig struct {
	APIKey           string
	Endpoint         string
	MaxResults       int
	AllowedDomains   []string
	PreferredDomains []string
}

type BrowserConfig struct {
	Headless     bool
	Stealth      bool
	Pacing       bool // randomized delays + pointer jitter; off in tests
	NavTimeoutMS int
	MinDelayMS   int
	MaxDelayMS   int
}

type PipelineConfig struct {
	MaxRecords int // cap per query, acquisition order preserved
	Workers    int // independent sessions across different queries
}

type ArchiveConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type SchedulerConfig struct {
	Cron     string
	Interval time.Duration
}

type ProxyConfig struct {
	URL string
}

// SiteConfig describes how to drive one portal's own search page in the
// manual tier. Loaded from config/sites/*.yaml.
type SiteConfig struct {
	ID              string   `yaml:"id"`
	Domain          string   `yaml:"domain"`
	SearchURL       string   `yaml:"search_url"` // {query} and {city} placeholders
	WaitSelector    string   `yaml:"wait_selector"`
	LinkSelector    string   `yaml:"link_selector"`
	CardSelector    string   `yaml:"card_selector"`
	ExpandSelectors []string `yaml:"expand_selectors"`
	MaxLinks        int      `yaml:"max_links"`
	RateLimitMS     int      `yaml:"rate_limit_ms"`
	ScrollOnLoad    bool     `yaml:"scroll_on_load"`
}

var defaultAllowedDomains = []string{
	"99acres.com",
	"magicbricks.com",
	"housing.com",
	"squareyards.com",
	"makaan.com",
	"indiaproperty.com",
	"commonfloor.com",
}

var defaultPreferredDomains = []string{
	"magicbricks.com",
	"99acres.com",
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Search: SearchConfig{
			APIKey:           os.Getenv("SEARCH_API_KEY"),
			Endpoint:         getEnv("SEARCH_API_ENDPOINT", "https://api.tavily.com/search"),
			MaxResults:       getEnvInt("SEARCH_MAX_RESULTS", 4),
			AllowedDomains:   getEnvList("SEARCH_ALLOWED_DOMAINS", defaultAllowedDomains),
			PreferredDomains: getEnvList("SEARCH_PREFERRED_DOMAINS", defaultPreferredDomains),
		},
		Browser: BrowserConfig{
			Headless:     getEnv("BROWSER_HEADLESS", "true") == "true",
			Stealth:      getEnv("BROWSER_STEALTH", "true") == "true",
			Pacing:       getEnv("BROWSER_PACING", "true") == "true",
			NavTimeoutMS: getEnvInt("BROWSER_NAV_TIMEOUT_MS", 30000),
			MinDelayMS:   getEnvInt("BROWSER_MIN_DELAY_MS", 2000),
			MaxDelayMS:   getEnvInt("BROWSER_MAX_DELAY_MS", 4000),
		},
		Pipeline: PipelineConfig{
			MaxRecords: getEnvInt("PIPELINE_MAX_RECORDS", 5),
			Workers:    getEnvInt("PIPELINE_WORKERS", 1),
		},
		Archive: ArchiveConfig{
			Bucket:          os.Getenv("ARCHIVE_S3_BUCKET"),
			Region:          getEnv("ARCHIVE_S3_REGION", "ap-south-1"),
			Endpoint:        os.Getenv("ARCHIVE_S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("ARCHIVE_S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("ARCHIVE_S3_SECRET_ACCESS_KEY"),
		},
		Scheduler: SchedulerConfig{
			Cron: os.Getenv("SEARCH_CRON"),
		},
		Proxy: ProxyConfig{
			URL: os.Getenv("PROXY_URL"),
		},
		PGURL:    os.Getenv("DATABASE_URL"),
		DBPath:   getEnv("DB_PATH", "gharkhoj.db"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Sites:    make(map[string]*SiteConfig),
	}

	if interval := os.Getenv("SEARCH_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			cfg.Scheduler.Interval = d
		}
	}

	if err := cfg.loadSiteConfigs(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadSiteConfigs() error {
	configDir := "config/sites"
	entries, err := os.ReadDir(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}

		path := filepath.Join(configDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		var site SiteConfig
		if err := yaml.Unmarshal(data, &site); err != nil {
			return err
		}
		if site.MaxLinks == 0 {
			site.MaxLinks = 3
		}

		c.Sites[site.ID] = &site
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
