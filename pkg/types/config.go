package types

import "time"

// HTTPConfig holds shared HTTP settings used by clients that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-recommender/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ScholarConfig holds settings for the Semantic Scholar client.
type ScholarConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIKey selects the partner endpoint and is sent as x-api-key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the endpoint chosen from APIKey.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// MaxRequests is the number of requests allowed per Window (default 100).
	MaxRequests int `json:"max_requests" yaml:"max_requests" mapstructure:"max_requests"`

	// Window is the rate-limit window duration (default 5m).
	Window time.Duration `json:"window" yaml:"window" mapstructure:"window"`

	// CachePath is the SQLite file holding cached API responses.
	CachePath string `json:"cache_path" yaml:"cache_path" mapstructure:"cache_path"`

	// CacheTTL is how long a cached response stays valid (default 7 days).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl" mapstructure:"cache_ttl"`

	// MaxPaperAge is the recency window in years used to filter an author's
	// papers and in explanation text (default 5).
	MaxPaperAge int `json:"max_paper_age" yaml:"max_paper_age" mapstructure:"max_paper_age"`
}

// DigestConfig holds settings for the arXivDigest API connector.
type DigestConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey is the recommender's arXivDigest API key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxRetries is the number of retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// Strategy names a scoring strategy.
type Strategy string

const (
	StrategyCollab Strategy = "collab"
	StrategyVenue  Strategy = "venue"
)

// RecommenderConfig holds settings for the recommendation pipeline.
type RecommenderConfig struct {
	Strategy Strategy `json:"strategy" yaml:"strategy" mapstructure:"strategy"`

	// MaxRecommendations caps the list submitted per user (default 10).
	MaxRecommendations int `json:"max_recommendations" yaml:"max_recommendations" mapstructure:"max_recommendations"`

	// PaperBatchSize is the number of candidates ranked per strategy call (default 50).
	PaperBatchSize int `json:"paper_batch_size" yaml:"paper_batch_size" mapstructure:"paper_batch_size"`

	// ScoreChunkSize is the number of candidates scored concurrently (default 5).
	ScoreChunkSize int `json:"score_chunk_size" yaml:"score_chunk_size" mapstructure:"score_chunk_size"`

	// PrecomputeWorkers bounds concurrent author-vector builds (default 8).
	PrecomputeWorkers int `json:"precompute_workers" yaml:"precompute_workers" mapstructure:"precompute_workers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is debug, info, warn, or error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is console or json (default console).
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all configuration for a recommender run.
type Config struct {
	Scholar     ScholarConfig     `json:"scholar" yaml:"scholar" mapstructure:"scholar"`
	Digest      DigestConfig      `json:"digest" yaml:"digest" mapstructure:"digest"`
	Recommender RecommenderConfig `json:"recommender" yaml:"recommender" mapstructure:"recommender"`
	Logging     LoggingConfig     `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// Defaults applied by WithDefaults.
const (
	DefaultMaxRequests        = 100
	DefaultWindow             = 5 * time.Minute
	DefaultCacheTTL           = 7 * 24 * time.Hour
	DefaultCachePath          = "cache/semantic_scholar.db"
	DefaultMaxPaperAge        = 5
	DefaultMaxRecommendations = 10
	DefaultPaperBatchSize     = 50
	DefaultScoreChunkSize     = 5
	DefaultPrecomputeWorkers  = 8
	DefaultMaxRetries         = 5
)

// WithDefaults returns a copy of c with zero values replaced by defaults.
func (c ScholarConfig) WithDefaults() ScholarConfig {
	if c.MaxRequests <= 0 {
		c.MaxRequests = DefaultMaxRequests
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.CachePath == "" {
		c.CachePath = DefaultCachePath
	}
	if c.MaxPaperAge <= 0 {
		c.MaxPaperAge = DefaultMaxPaperAge
	}
	return c
}

// WithDefaults returns a copy of c with zero values replaced by defaults.
func (c RecommenderConfig) WithDefaults() RecommenderConfig {
	if c.Strategy == "" {
		c.Strategy = StrategyCollab
	}
	if c.MaxRecommendations <= 0 {
		c.MaxRecommendations = DefaultMaxRecommendations
	}
	if c.PaperBatchSize <= 0 {
		c.PaperBatchSize = DefaultPaperBatchSize
	}
	if c.ScoreChunkSize <= 0 {
		c.ScoreChunkSize = DefaultScoreChunkSize
	}
	if c.PrecomputeWorkers <= 0 {
		c.PrecomputeWorkers = DefaultPrecomputeWorkers
	}
	return c
}
