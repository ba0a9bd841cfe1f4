// Package config loads the application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"leadgen/internal/domain/entity"
)

// Content generation backends.
const (
	BackendOllama = "ollama"
	BackendClaude = "claude"
	BackendOpenAI = "openai"
)

// Defaults applied when the environment sets nothing.
const (
	DefaultOllamaBaseURL       = "http://localhost:11434"
	DefaultOllamaModel         = "llama3.2"
	DefaultOpenAIModel         = "gpt-4o-mini"
	DefaultPostizBaseURL       = "https://api.postiz.com/public/v1"
	DefaultPostizScheduleDelay = time.Hour
	DefaultHTTPTimeout         = 30 * time.Second
	DefaultMaxDifficulty       = 50
)

// Config is the full application configuration. Empty credentials mean the
// integration is not configured; only the content backend is required.
type Config struct {
	Backend string

	Ollama OllamaConfig
	Claude ClaudeConfig
	OpenAI OpenAIConfig

	// HugoBlogDir is the root of the Hugo site; posts go to content/posts.
	HugoBlogDir string
	// SiteBaseURL is the public blog URL used for canonical links. Optional.
	SiteBaseURL string

	Hashnode   HashnodeConfig
	DevTo      DevToConfig
	Postiz     PostizConfig
	ConvertKit ConvertKitConfig
	DataForSEO DataForSEOConfig

	DatabaseURL string
	// RotationFile optionally overrides the default calendar rotation (YAML).
	RotationFile  string
	MaxDifficulty int
	HTTPTimeout   time.Duration
}

type OllamaConfig struct {
	BaseURL string
	Model   string
}

type ClaudeConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type HashnodeConfig struct {
	Token         string
	PublicationID string
}

type DevToConfig struct {
	APIKey string
}

type PostizConfig struct {
	APIKey  string
	BaseURL string
	// Integrations binds platforms to Postiz integration ids, e.g. "x:abc,linkedin:def".
	Integrations  string
	ScheduleDelay time.Duration
}

type ConvertKitConfig struct {
	APIKey    string
	APISecret string
}

type DataForSEOConfig struct {
	Login    string
	Password string
}

// Load reads .env (if present) and then the environment, and validates the result.
func Load() (*Config, error) {
	if _, err := LoadDotEnv(); err != nil {
		return nil, err
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	cfg := &Config{
		Backend: getEnvOrDefault("LEADGEN_BACKEND", BackendOllama),
		Ollama: OllamaConfig{
			BaseURL: getEnvOrDefault("OLLAMA_BASE_URL", DefaultOllamaBaseURL),
			Model:   getEnvOrDefault("OLLAMA_MODEL", DefaultOllamaModel),
		},
		Claude: ClaudeConfig{
			APIKey: os.Getenv("ANTHROPIC_API_KEY"),
			Model:  os.Getenv("CLAUDE_MODEL"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   getEnvOrDefault("OPENAI_MODEL", DefaultOpenAIModel),
		},
		HugoBlogDir: getEnvOrDefault("HUGO_BLOG_DIR", filepath.Join(wd, "blog")),
		SiteBaseURL: os.Getenv("SITE_BASE_URL"),
		Hashnode: HashnodeConfig{
			Token:         os.Getenv("HASHNODE_API_TOKEN"),
			PublicationID: os.Getenv("HASHNODE_PUBLICATION_ID"),
		},
		DevTo: DevToConfig{APIKey: os.Getenv("DEVTO_API_KEY")},
		Postiz: PostizConfig{
			APIKey:        os.Getenv("POSTIZ_API_KEY"),
			BaseURL:       getEnvOrDefault("POSTIZ_BASE_URL", DefaultPostizBaseURL),
			Integrations:  os.Getenv("POSTIZ_INTEGRATIONS"),
			ScheduleDelay: getEnvDuration("POSTIZ_SCHEDULE_DELAY", DefaultPostizScheduleDelay),
		},
		ConvertKit: ConvertKitConfig{
			APIKey:    os.Getenv("CONVERTKIT_API_KEY"),
			APISecret: os.Getenv("CONVERTKIT_API_SECRET"),
		},
		DataForSEO: DataForSEOConfig{
			Login:    os.Getenv("DATAFORSEO_LOGIN"),
			Password: os.Getenv("DATAFORSEO_PASSWORD"),
		},
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RotationFile:  os.Getenv("CALENDAR_ROTATION_FILE"),
		MaxDifficulty: getEnvInt("KEYWORD_MAX_DIFFICULTY", DefaultMaxDifficulty),
		HTTPTimeout:   getEnvDuration("HTTP_TIMEOUT", DefaultHTTPTimeout),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration correctness. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	switch c.Backend {
	case BackendOllama:
		if c.Ollama.Model == "" {
			errs = append(errs, errors.New("OLLAMA_MODEL cannot be empty"))
		}
	case BackendClaude:
		if c.Claude.APIKey == "" {
			errs = append(errs, errors.New("ANTHROPIC_API_KEY is required for the claude backend"))
		}
	case BackendOpenAI:
		if c.OpenAI.APIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("LEADGEN_BACKEND must be one of %s, %s, %s; got %q",
			BackendOllama, BackendClaude, BackendOpenAI, c.Backend))
	}

	if c.HugoBlogDir == "" {
		errs = append(errs, errors.New("HUGO_BLOG_DIR cannot be empty"))
	}
	if c.SiteBaseURL != "" {
		if err := entity.ValidateURL(c.SiteBaseURL); err != nil {
			errs = append(errs, fmt.Errorf("SITE_BASE_URL: %w", err))
		}
	}
	if c.Postiz.ScheduleDelay < 0 {
		errs = append(errs, errors.New("POSTIZ_SCHEDULE_DELAY must not be negative"))
	}
	if c.MaxDifficulty < 0 || c.MaxDifficulty > 100 {
		errs = append(errs, fmt.Errorf("KEYWORD_MAX_DIFFICULTY must be between 0 and 100, got %d", c.MaxDifficulty))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("HTTP_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// Integration reports whether one external integration has credentials.
type Integration struct {
	Name       string
	Configured bool
}

// Integrations lists the optional integrations in display order.
func (c *Config) Integrations() []Integration {
	return []Integration{
		{"Hugo blog", c.HugoBlogDir != ""},
		{"Claude", c.Claude.APIKey != ""},
		{"OpenAI", c.OpenAI.APIKey != ""},
		{"Hashnode", c.HashnodeEnabled()},
		{"Dev.to", c.DevToEnabled()},
		{"Postiz", c.PostizEnabled()},
		{"ConvertKit", c.ConvertKitEnabled()},
		{"DataForSEO", c.DataForSEOEnabled()},
		{"Database", c.DatabaseURL != ""},
	}
}

func (c *Config) HashnodeEnabled() bool {
	return c.Hashnode.Token != "" && c.Hashnode.PublicationID != ""
}

func (c *Config) DevToEnabled() bool { return c.DevTo.APIKey != "" }

func (c *Config) PostizEnabled() bool { return c.Postiz.APIKey != "" }

func (c *Config) ConvertKitEnabled() bool { return c.ConvertKit.APIKey != "" }

func (c *Config) DataForSEOEnabled() bool {
	return c.DataForSEO.Login != "" && c.DataForSEO.Password != ""
}
