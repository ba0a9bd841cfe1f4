// Command leadgen generates, publishes and distributes marketing blog posts.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"leadgen/internal/app"
	"leadgen/internal/config"
	"leadgen/internal/observability/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewTextLogger()
	slog.SetDefault(logger)

	if err := newRootCmd(newEnv(logger)).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", logging.SanitizeError(err))
		os.Exit(1)
	}
}

// env carries what the commands need from the process. Tests swap the loaders.
type env struct {
	logger     *slog.Logger
	loadConfig func() (*config.Config, error)
	newApp     func(*config.Config, *slog.Logger) (*app.App, error)
}

func newEnv(logger *slog.Logger) *env {
	return &env{
		logger:     logger,
		loadConfig: config.Load,
		newApp:     app.New,
	}
}

// app loads the configuration and builds the application.
func (e *env) app() (*app.App, error) {
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	return e.newApp(cfg, e.logger)
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "leadgen",
		Short:         "Generate and distribute marketing blog content",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newStatusCmd(e))
	root.AddCommand(newGenerateCmd(e))
	root.AddCommand(newKeywordsCmd(e))
	root.AddCommand(newCalendarCmd(e))
	root.AddCommand(newTopicsCmd(e))
	root.AddCommand(newSubscribeCmd(e))

	return root
}
