// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir holds the CSV ledger and staff roster files.
	DataDir string `koanf:"data_dir"`

	// StaffFile and TipsFile override the default paths derived from
	// DataDir when non-empty.
	StaffFile string `koanf:"staff_file"`
	TipsFile  string `koanf:"tips_file"`

	// QueueSize bounds the in-memory append queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// RecentFeedback sets how many feedback entries a summary carries.
	RecentFeedback int `koanf:"recent_feedback"`

	// MaxFeedLimit caps GET /feed?limit.
	MaxFeedLimit int `koanf:"max_feed_limit"`

	// GeminiAPIKey enables the model classifier tier when non-empty.
	GeminiAPIKey string `koanf:"gemini_api_key"`

	// GeminiModel names the generative model used for classification.
	GeminiModel string `koanf:"gemini_model"`

	// AuthTokens maps bearer tokens to "name:role" pairs for the
	// leaderboard and feed role gate. Loaded from the YAML file only.
	AuthTokens map[string]string `koanf:"auth_tokens"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":8080",
		DataDir:        "data",
		QueueSize:      1024,
		DedupeSize:     50_000,
		RecentFeedback: 10,
		MaxFeedLimit:   100,
		GeminiModel:    "models/gemini-1.5-flash",
		AuthTokens:     map[string]string{},
	}
}
