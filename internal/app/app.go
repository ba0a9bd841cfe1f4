// Package app wires configuration into the use cases shared by the leadgen
// CLI and the scheduling worker.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"leadgen/internal/config"
	"leadgen/internal/infra/adapter/persistence/postgres"
	"leadgen/internal/infra/contentgen"
	"leadgen/internal/infra/db"
	"leadgen/internal/infra/distributor"
	"leadgen/internal/infra/email"
	"leadgen/internal/infra/hugo"
	"leadgen/internal/infra/publisher"
	"leadgen/internal/infra/seo"
	"leadgen/internal/infra/trends"
	"leadgen/internal/repository"
	"leadgen/internal/usecase/calendar"
	"leadgen/internal/usecase/pipeline"
	"leadgen/internal/usecase/schedule"
)

// ErrNotConfigured is returned when a command needs an integration whose
// credentials are missing.
var ErrNotConfigured = errors.New("integration not configured")

// App holds the components built from one Config.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Generator *contentgen.Generator
	Publisher *hugo.Publisher
	Pipeline  *pipeline.Service
	Topics    *trends.Finder

	keywords *seo.Researcher
	email    *email.Client
	database *sql.DB
	calendar repository.CalendarRepository
}

// New builds the application. Optional integrations without credentials are
// left out; the database is opened lazily by Calendar.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	backend, err := NewContentBackend(cfg)
	if err != nil {
		return nil, err
	}
	gen := contentgen.New(backend)
	pub := hugo.NewPublisher(cfg.HugoBlogDir)

	distributors, err := Distributors(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:    cfg,
		Logger:    logger,
		Generator: gen,
		Publisher: pub,
		Pipeline: pipeline.NewService(gen, pub,
			pipeline.WithDistributors(distributors...),
			pipeline.WithSiteBaseURL(cfg.SiteBaseURL)),
		Topics: trends.NewFinder(trends.Config{Timeout: cfg.HTTPTimeout}),
	}

	if cfg.DataForSEOEnabled() {
		a.keywords = seo.NewResearcher(seo.Config{
			Login:    cfg.DataForSEO.Login,
			Password: cfg.DataForSEO.Password,
			Timeout:  cfg.HTTPTimeout,
		})
	}
	if cfg.ConvertKitEnabled() {
		a.email = newConvertKit(cfg)
	}

	logger.Info("application initialized",
		slog.String("backend", gen.Backend()),
		slog.String("blog_dir", pub.BlogDir()),
		slog.Any("distributors", a.Pipeline.Distributors()))
	return a, nil
}

// NewContentBackend selects the language model backend named by cfg.Backend.
func NewContentBackend(cfg *config.Config) (contentgen.Backend, error) {
	switch cfg.Backend {
	case config.BackendOllama:
		oc := contentgen.OllamaConfig(cfg.Ollama.BaseURL, cfg.Ollama.Model)
		if err := oc.Validate(); err != nil {
			return nil, fmt.Errorf("ollama backend: %w", err)
		}
		return contentgen.NewOpenAI(oc), nil

	case config.BackendClaude:
		cc := contentgen.DefaultClaudeConfig()
		cc.APIKey = cfg.Claude.APIKey
		if cfg.Claude.Model != "" {
			cc.Model = cfg.Claude.Model
		}
		if err := cc.Validate(); err != nil {
			return nil, fmt.Errorf("claude backend: %w", err)
		}
		return contentgen.NewClaude(cc), nil

	case config.BackendOpenAI:
		oc := contentgen.OpenAIConfig{
			Name:     config.BackendOpenAI,
			APIKey:   cfg.OpenAI.APIKey,
			BaseURL:  cfg.OpenAI.BaseURL,
			Model:    cfg.OpenAI.Model,
			JSONMode: true,
			Timeout:  contentgen.DefaultClaudeConfig().Timeout,
		}
		if oc.BaseURL == "" {
			oc.BaseURL = "https://api.openai.com/v1"
		}
		if err := oc.Validate(); err != nil {
			return nil, fmt.Errorf("openai backend: %w", err)
		}
		return contentgen.NewOpenAI(oc), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// Distributors returns the configured distribution targets in invocation
// order: Dev.to, Hashnode, Postiz, ConvertKit.
func Distributors(cfg *config.Config) ([]pipeline.Distributor, error) {
	var out []pipeline.Distributor

	if cfg.DevToEnabled() {
		out = append(out, publisher.NewDevTo(publisher.DevToConfig{
			APIKey:  cfg.DevTo.APIKey,
			Timeout: cfg.HTTPTimeout,
		}))
	}
	if cfg.HashnodeEnabled() {
		out = append(out, publisher.NewHashnode(publisher.HashnodeConfig{
			Token:         cfg.Hashnode.Token,
			PublicationID: cfg.Hashnode.PublicationID,
			Timeout:       cfg.HTTPTimeout,
		}))
	}
	if cfg.PostizEnabled() {
		bindings, err := distributor.ParseBindings(cfg.Postiz.Integrations)
		if err != nil {
			return nil, fmt.Errorf("POSTIZ_INTEGRATIONS: %w", err)
		}
		client := distributor.NewClient(distributor.Config{
			APIKey:  cfg.Postiz.APIKey,
			BaseURL: cfg.Postiz.BaseURL,
			Timeout: cfg.HTTPTimeout,
		})
		out = append(out, distributor.NewSocialDistributor(client, bindings, cfg.Postiz.ScheduleDelay))
	}
	// Broadcasts need the API secret; subscribing only needs the key.
	if cfg.ConvertKitEnabled() && cfg.ConvertKit.APISecret != "" {
		out = append(out, newConvertKit(cfg))
	}
	return out, nil
}

func newConvertKit(cfg *config.Config) *email.Client {
	return email.NewClient(email.Config{
		APIKey:    cfg.ConvertKit.APIKey,
		APISecret: cfg.ConvertKit.APISecret,
		Timeout:   cfg.HTTPTimeout,
	})
}

// Keywords returns the DataForSEO researcher.
func (a *App) Keywords() (*seo.Researcher, error) {
	if a.keywords == nil {
		return nil, fmt.Errorf("DataForSEO: %w", ErrNotConfigured)
	}
	return a.keywords, nil
}

// Email returns the ConvertKit client.
func (a *App) Email() (*email.Client, error) {
	if a.email == nil {
		return nil, fmt.Errorf("ConvertKit: %w", ErrNotConfigured)
	}
	return a.email, nil
}

// Calendar opens the calendar store on first use and applies the schema.
func (a *App) Calendar(ctx context.Context) (repository.CalendarRepository, error) {
	if a.calendar != nil {
		return a.calendar, nil
	}
	database, err := db.Open(ctx, a.Config.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(database); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	a.database = database
	a.calendar = postgres.NewCalendarRepo(database)
	return a.calendar, nil
}

// DB returns the open database handle, or nil before Calendar succeeded.
func (a *App) DB() *sql.DB {
	return a.database
}

// Planner builds a calendar planner from the configured rotation. repo may be
// nil when the plan is only printed.
func (a *App) Planner(repo repository.CalendarRepository) (*schedule.Planner, error) {
	keywords, err := a.Keywords()
	if err != nil {
		return nil, err
	}
	rotation, err := config.LoadRotation(a.Config.RotationFile)
	if err != nil {
		return nil, err
	}
	gen, err := calendar.NewGenerator(rotation)
	if err != nil {
		return nil, err
	}
	return schedule.NewPlanner(keywords, gen, repo, a.Config.MaxDifficulty), nil
}

// Runner builds the consumer of due calendar entries.
func (a *App) Runner(repo repository.CalendarRepository) *schedule.Runner {
	return schedule.NewRunner(repo, a.Pipeline)
}

// Close releases the database connection, if one was opened.
func (a *App) Close() error {
	if a.database == nil {
		return nil
	}
	err := a.database.Close()
	a.database = nil
	a.calendar = nil
	return err
}
