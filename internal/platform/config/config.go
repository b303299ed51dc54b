package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendVault    = "vault"
	BackendPostgres = "postgres"
)

type AIConfig struct {
	APIKey        string        `yaml:"-"`
	BaseURL       string        `yaml:"base_url,omitempty"`
	ChatModel     string        `yaml:"chat_model"`
	SearchModel   string        `yaml:"search_model"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxRetries    int           `yaml:"max_retries"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
	MaxChars      int           `yaml:"max_chars"`
	QuizQuestions int           `yaml:"quiz_questions"`
}

type ScraperConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"-"`
	Timeout time.Duration `yaml:"timeout"`
}

type DatabaseConfig struct {
	Backend string `yaml:"backend"`
	DSN     string `yaml:"-"`
}

type RedisConfig struct {
	Addr    string `yaml:"addr,omitempty"`
	Channel string `yaml:"channel"`
}

type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type WritebackConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	RetryDelay  time.Duration `yaml:"retry_delay"`
	QueueSize   int           `yaml:"queue_size"`
}

type Config struct {
	HomePath  string          `yaml:"-"`
	DBPath    string          `yaml:"-"`
	LogMode   string          `yaml:"log_mode"`
	TimeZone  string          `yaml:"time_zone"`
	AI        AIConfig        `yaml:"ai"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	HTTP      HTTPConfig      `yaml:"http"`
	Writeback WritebackConfig `yaml:"writeback"`
}

// Default returns a Config with sensible defaults rooted at homePath.
func Default(homePath string) Config {
	return Config{
		HomePath: homePath,
		DBPath:   filepath.Join(homePath, ".mindshelf", "mindshelf.db"),
		LogMode:  "dev",
		TimeZone: "Local",
		AI: AIConfig{
			ChatModel:     "gpt-4o-mini",
			SearchModel:   "gpt-4o-mini-search-preview",
			Timeout:       90 * time.Second,
			MaxRetries:    2,
			RetryDelay:    time.Second,
			MaxChars:      30000,
			QuizQuestions: 10,
		},
		Scraper: ScraperConfig{
			BaseURL: "https://api.firecrawl.dev",
			Timeout: 45 * time.Second,
		},
		Database: DatabaseConfig{Backend: BackendVault},
		Redis:    RedisConfig{Channel: "mindshelf:events"},
		HTTP: HTTPConfig{
			Addr:           "127.0.0.1:8080",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Writeback: WritebackConfig{
			MaxAttempts: 5,
			RetryDelay:  500 * time.Millisecond,
			QueueSize:   256,
		},
	}
}

// New loads configuration for homePath: defaults, then <home>/config.yaml,
// then <home>/.env and the process environment.
func New(homePath string) (Config, error) {
	if strings.TrimSpace(homePath) == "" {
		return Config{}, fmt.Errorf("home path is required")
	}
	cfg := Default(homePath)

	raw, err := os.ReadFile(filepath.Join(homePath, "config.yaml"))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config.yaml: %w", err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("read config.yaml: %w", err)
	}

	_ = godotenv.Load(filepath.Join(homePath, ".env"))
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.AI.APIKey = getEnv("OPENAI_API_KEY", c.AI.APIKey)
	c.AI.BaseURL = getEnv("OPENAI_BASE_URL", c.AI.BaseURL)
	c.AI.ChatModel = getEnv("MINDSHELF_CHAT_MODEL", c.AI.ChatModel)
	c.AI.SearchModel = getEnv("MINDSHELF_SEARCH_MODEL", c.AI.SearchModel)
	c.AI.Timeout = getEnvDuration("MINDSHELF_AI_TIMEOUT", c.AI.Timeout)
	c.AI.MaxRetries = getEnvInt("MINDSHELF_AI_MAX_RETRIES", c.AI.MaxRetries)
	c.Scraper.BaseURL = getEnv("SCRAPER_BASE_URL", c.Scraper.BaseURL)
	c.Scraper.APIKey = getEnv("SCRAPER_API_KEY", c.Scraper.APIKey)
	c.Database.Backend = getEnv("MINDSHELF_DB_BACKEND", c.Database.Backend)
	c.Database.DSN = getEnv("DATABASE_URL", c.Database.DSN)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.HTTP.Addr = getEnv("MINDSHELF_HTTP_ADDR", c.HTTP.Addr)
	c.LogMode = getEnv("MINDSHELF_LOG_MODE", c.LogMode)
	c.TimeZone = getEnv("MINDSHELF_TZ", c.TimeZone)
}

func (c Config) Validate() error {
	switch c.Database.Backend {
	case BackendVault:
	case BackendPostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unsupported database backend %q", c.Database.Backend)
	}
	if c.AI.MaxChars <= 0 {
		return fmt.Errorf("ai.max_chars must be positive, got %d", c.AI.MaxChars)
	}
	if c.AI.QuizQuestions <= 0 {
		return fmt.Errorf("ai.quiz_questions must be positive, got %d", c.AI.QuizQuestions)
	}
	if c.AI.MaxRetries < 0 || c.AI.MaxRetries > 10 {
		return fmt.Errorf("ai.max_retries must be 0-10, got %d", c.AI.MaxRetries)
	}
	if c.Writeback.MaxAttempts < 1 {
		return fmt.Errorf("writeback.max_attempts must be at least 1")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured user time zone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
