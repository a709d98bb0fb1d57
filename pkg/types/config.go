// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"time"
)

// Compiled-in scheduling. These are deliberately not runtime-configurable.
const (
	// PollInterval is the period between poll cycles.
	PollInterval = 1 * time.Minute

	// ExportWeekday, ExportHour and ExportMinute fix the weekly export
	// trigger in local time.
	ExportWeekday = time.Saturday
	ExportHour    = 14
	ExportMinute  = 38

	// SchedulerTick is how often the control loop checks its timers.
	SchedulerTick = 10 * time.Second
)

// MaxCandidates caps the number of records fetched per poll cycle.
const MaxCandidates = 10

// DefaultKeywords are the title terms the poll query ORs together.
var DefaultKeywords = []string{"hydrogen", "ammonia"}

// Well-known file names inside the data directory.
const (
	DBFile         = "s_articles.db"
	ExportFile     = "scopus_pub.csv"
	ExportYAMLFile = "scopus_pub.yaml"
)

// HTTPConfig holds shared HTTP settings used by every collaborator client.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig holds settings for the search provider client.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIKey is sent as X-ELS-APIKey.
	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`

	// Keywords are matched against titles and combined with OR.
	Keywords []string `json:"keywords" yaml:"keywords" mapstructure:"keywords"`

	// MaxResults is the result cap per request (default MaxCandidates).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// TranslationConfig holds settings for the chat-completion translation backend.
type TranslationConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`

	// Model is the chat-completion model identifier (default "gpt-4o").
	Model string `json:"model" yaml:"model" mapstructure:"model"`
}

// TelegramConfig holds settings for the messaging channel.
type TelegramConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	BotToken string `json:"-" yaml:"-" mapstructure:"bot_token"`

	// ChannelID is the destination chat (numeric id or @username).
	ChannelID string `json:"channel_id" yaml:"channel_id" mapstructure:"channel_id"`

	// ThreadID targets a forum topic; zero posts to the main thread.
	ThreadID int `json:"thread_id" yaml:"thread_id" mapstructure:"thread_id"`

	// MessagesPerMinute paces outbound sends (default 20).
	MessagesPerMinute int `json:"messages_per_minute" yaml:"messages_per_minute" mapstructure:"messages_per_minute"`
}

// Config is the complete process configuration.
type Config struct {
	// Environment selects log formatting: "local" prints to the console.
	Environment string `json:"environment" yaml:"environment" mapstructure:"environment"`

	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`

	// DataDir holds the SQLite database and export artifacts.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	Search      SearchConfig      `json:"search" yaml:"search" mapstructure:"search"`
	Translation TranslationConfig `json:"translation" yaml:"translation" mapstructure:"translation"`
	Telegram    TelegramConfig    `json:"telegram" yaml:"telegram" mapstructure:"telegram"`
}

// DBPath returns the location of the dedup database.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, DBFile)
}

// ExportPath returns the location of the CSV export artifact.
func (c Config) ExportPath() string {
	return filepath.Join(c.DataDir, ExportFile)
}
