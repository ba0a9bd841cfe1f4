package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"LEADGEN_BACKEND", "OLLAMA_BASE_URL", "OLLAMA_MODEL",
	"ANTHROPIC_API_KEY", "CLAUDE_MODEL", "OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL",
	"HUGO_BLOG_DIR", "SITE_BASE_URL",
	"HASHNODE_API_TOKEN", "HASHNODE_PUBLICATION_ID", "DEVTO_API_KEY",
	"POSTIZ_API_KEY", "POSTIZ_BASE_URL", "POSTIZ_INTEGRATIONS", "POSTIZ_SCHEDULE_DELAY",
	"CONVERTKIT_API_KEY", "CONVERTKIT_API_SECRET",
	"DATAFORSEO_LOGIN", "DATAFORSEO_PASSWORD",
	"DATABASE_URL", "CALENDAR_ROTATION_FILE", "KEYWORD_MAX_DIFFICULTY", "HTTP_TIMEOUT",
}

// clearEnv blanks every variable the loader reads. Blank counts as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, BackendOllama, cfg.Backend)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "llama3.2", cfg.Ollama.Model)
	assert.Equal(t, filepath.Join(wd, "blog"), cfg.HugoBlogDir)
	assert.Equal(t, "https://api.postiz.com/public/v1", cfg.Postiz.BaseURL)
	assert.Equal(t, time.Hour, cfg.Postiz.ScheduleDelay)
	assert.Equal(t, 50, cfg.MaxDifficulty)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Empty(t, cfg.SiteBaseURL)
	assert.False(t, cfg.HashnodeEnabled())
	assert.False(t, cfg.DevToEnabled())
	assert.False(t, cfg.PostizEnabled())
	assert.False(t, cfg.ConvertKitEnabled())
	assert.False(t, cfg.DataForSEOEnabled())
}

func TestFromEnv_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEADGEN_BACKEND", "claude")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("CLAUDE_MODEL", "claude-test")
	t.Setenv("HUGO_BLOG_DIR", "/srv/blog")
	t.Setenv("SITE_BASE_URL", "https://blog.example.com")
	t.Setenv("HASHNODE_API_TOKEN", "hn")
	t.Setenv("HASHNODE_PUBLICATION_ID", "pub")
	t.Setenv("DEVTO_API_KEY", "dev")
	t.Setenv("POSTIZ_API_KEY", "pz")
	t.Setenv("POSTIZ_INTEGRATIONS", "x:1,linkedin:2")
	t.Setenv("POSTIZ_SCHEDULE_DELAY", "15m")
	t.Setenv("CONVERTKIT_API_KEY", "ck")
	t.Setenv("DATAFORSEO_LOGIN", "login")
	t.Setenv("DATAFORSEO_PASSWORD", "secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/leadgen")
	t.Setenv("KEYWORD_MAX_DIFFICULTY", "30")
	t.Setenv("HTTP_TIMEOUT", "10s")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, BackendClaude, cfg.Backend)
	assert.Equal(t, "claude-test", cfg.Claude.Model)
	assert.Equal(t, "/srv/blog", cfg.HugoBlogDir)
	assert.Equal(t, "https://blog.example.com", cfg.SiteBaseURL)
	assert.Equal(t, "x:1,linkedin:2", cfg.Postiz.Integrations)
	assert.Equal(t, 15*time.Minute, cfg.Postiz.ScheduleDelay)
	assert.Equal(t, 30, cfg.MaxDifficulty)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.HashnodeEnabled())
	assert.True(t, cfg.DevToEnabled())
	assert.True(t, cfg.PostizEnabled())
	assert.True(t, cfg.ConvertKitEnabled())
	assert.True(t, cfg.DataForSEOEnabled())
}

func TestFromEnv_InvalidDurationFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_TIMEOUT", "soon")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Backend:       BackendOllama,
			Ollama:        OllamaConfig{BaseURL: DefaultOllamaBaseURL, Model: DefaultOllamaModel},
			HugoBlogDir:   "/blog",
			MaxDifficulty: 50,
			HTTPTimeout:   time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown backend", func(c *Config) { c.Backend = "gemini" }, "LEADGEN_BACKEND"},
		{"claude without key", func(c *Config) { c.Backend = BackendClaude }, "ANTHROPIC_API_KEY"},
		{"openai without key", func(c *Config) { c.Backend = BackendOpenAI }, "OPENAI_API_KEY"},
		{"ollama without model", func(c *Config) { c.Ollama.Model = "" }, "OLLAMA_MODEL"},
		{"empty blog dir", func(c *Config) { c.HugoBlogDir = "" }, "HUGO_BLOG_DIR"},
		{"bad site url", func(c *Config) { c.SiteBaseURL = "ftp://blog" }, "SITE_BASE_URL"},
		{"negative delay", func(c *Config) { c.Postiz.ScheduleDelay = -time.Second }, "POSTIZ_SCHEDULE_DELAY"},
		{"difficulty too high", func(c *Config) { c.MaxDifficulty = 101 }, "KEYWORD_MAX_DIFFICULTY"},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }, "HTTP_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_ReportsAllProblems(t *testing.T) {
	c := &Config{Backend: "nope", MaxDifficulty: -1}
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LEADGEN_BACKEND")
	assert.Contains(t, err.Error(), "HUGO_BLOG_DIR")
	assert.Contains(t, err.Error(), "KEYWORD_MAX_DIFFICULTY")
	assert.Contains(t, err.Error(), "HTTP_TIMEOUT")
}

func TestConfig_Integrations(t *testing.T) {
	c := &Config{
		HugoBlogDir: "/blog",
		DevTo:       DevToConfig{APIKey: "k"},
		Hashnode:    HashnodeConfig{Token: "t"},
	}
	got := map[string]bool{}
	for _, in := range c.Integrations() {
		got[in.Name] = in.Configured
	}
	assert.True(t, got["Hugo blog"])
	assert.True(t, got["Dev.to"])
	assert.False(t, got["Hashnode"], "publication id missing")
	assert.False(t, got["Postiz"])
	assert.Len(t, got, 9)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LEADGEN_DOTENV_A=from-file\nLEADGEN_DOTENV_B=from-file\n"), 0o600))

	t.Setenv("LEADGEN_DOTENV_B", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("LEADGEN_DOTENV_A") })

	loaded, err := LoadDotEnv(path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, []string{path}, loaded)
	assert.Equal(t, "from-file", os.Getenv("LEADGEN_DOTENV_A"))
	assert.Equal(t, "from-env", os.Getenv("LEADGEN_DOTENV_B"), "the environment wins over the file")
}
