package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Health     HealthConfig     `yaml:"health"`
	Sources    SourcesConfig    `yaml:"sources"`
	Aggregator AggregatorConfig `yaml:"aggregator"`
	Redis      RedisConfig      `yaml:"redis"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Report     ReportConfig     `yaml:"report"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`     // "debug", "info", "warn", "error"
	JSONFile string `yaml:"json_file"` // optional path for a JSON log stream
}

type HealthConfig struct {
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

type SourcesConfig struct {
	Enabled   []string                 `yaml:"enabled"`
	UserAgent string                   `yaml:"user_agent"`
	Headers   map[string]string        `yaml:"headers"`
	Timeout   time.Duration            `yaml:"timeout"`  // default per-source fetch timeout
	Timeouts  map[string]time.Duration `yaml:"timeouts"` // per-source overrides, e.g. flashscore: 40s

	Sofascore   SofascoreConfig   `yaml:"sofascore"`
	Flashscore  FlashscoreConfig  `yaml:"flashscore"`
	Scores24    Scores24Config    `yaml:"scores24"`
	Marathonbet MarathonbetConfig `yaml:"marathonbet"`
}

type SofascoreConfig struct {
	BaseURL string `yaml:"base_url"`
}

type FlashscoreConfig struct {
	BaseURL       string        `yaml:"base_url"`
	RenderTimeout time.Duration `yaml:"render_timeout"` // headless page render budget
}

type Scores24Config struct {
	BaseURL string `yaml:"base_url"`
}

type MarathonbetConfig struct {
	BaseURL string `yaml:"base_url"`
}

type AggregatorConfig struct {
	MaxConcurrentFetches int           `yaml:"max_concurrent_fetches"` // bounded fetch pool size (default: 4)
	CacheTTL             time.Duration `yaml:"cache_ttl"`              // live-data cache TTL (default: 30s)
	FreshnessWindow      time.Duration `yaml:"freshness_window"`       // score candidates within this of the newest compete by priority (default: 120s)
	FuzzyDistance        int           `yaml:"fuzzy_distance"`         // max edit distance for near-miss signature merging, 0 disables

	// Priorities maps a field name ("score", "time", "odds", "statistics",
	// "scalar") to an ordered source list, most trusted first.
	Priorities map[string][]string `yaml:"priorities"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"` // empty means in-process cache only
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AnalysisConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type ReportConfig struct {
	TelegramBotToken string        `yaml:"telegram_bot_token"`
	TelegramChatID   int64         `yaml:"telegram_chat_id"`
	SendInterval     time.Duration `yaml:"send_interval"` // min interval between messages (default: 2s)
}

type SchedulerConfig struct {
	Interval   time.Duration `yaml:"interval"`    // cycle interval (default: 5m)
	ActiveFrom string        `yaml:"active_from"` // "09:00", empty means always active
	ActiveTo   string        `yaml:"active_to"`   // "23:00"
	Sports     []string      `yaml:"sports"`
	MaxMatches int           `yaml:"max_matches"` // cap on reported matches per sport (default: 10)
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SourceTimeout returns the fetch timeout for one source, falling back to the
// shared default and then to 20s when nothing is configured.
func (c *SourcesConfig) SourceTimeout(name string) time.Duration {
	if t, ok := c.Timeouts[name]; ok && t > 0 {
		return t
	}
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 20 * time.Second
}
