package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests. The
	// scraper overrides this with a desktop-browser string.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScrapeConfig holds settings for the landing-page scraper.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`
}

// ValidateConfig holds settings for the URL validator.
type ValidateConfig struct {
	HTTPConfig `yaml:",inline"`
}

// CacheConfig holds settings for the landing-page result cache.
type CacheConfig struct {
	// PositiveTTL is how long a result that found a PDF stays fresh
	// (default 24h).
	PositiveTTL time.Duration `json:"positive_ttl" yaml:"positive_ttl"`

	// NegativeTTL is how long a result without a PDF stays fresh
	// (default 1h), so failed publishers are re-tried sooner.
	NegativeTTL time.Duration `json:"negative_ttl" yaml:"negative_ttl"`

	// MaxEntries bounds the cache size; the oldest-inserted entry is
	// evicted first (default 1000).
	MaxEntries int `json:"max_entries" yaml:"max_entries"`
}

// OpenAccessConfig holds settings for the open-access index client.
type OpenAccessConfig struct {
	HTTPConfig `yaml:",inline"`

	// Email is sent as the mailto parameter for polite pool access.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// MaxRetries bounds 429 retries against the index API (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ResolverConfig groups all component configurations for the resolver.
type ResolverConfig struct {
	Scrape     ScrapeConfig     `json:"scrape" yaml:"scrape"`
	Validate   ValidateConfig   `json:"validate" yaml:"validate"`
	Cache      CacheConfig      `json:"cache" yaml:"cache"`
	OpenAccess OpenAccessConfig `json:"open_access" yaml:"open_access"`

	// RulesFile is an optional YAML file of publisher rules merged over
	// the built-in registry.
	RulesFile string `json:"rules_file,omitempty" yaml:"rules_file,omitempty"`

	// HistoryDB is an optional SQLite path for the resolution history;
	// empty disables history recording.
	HistoryDB string `json:"history_db,omitempty" yaml:"history_db,omitempty"`
}
