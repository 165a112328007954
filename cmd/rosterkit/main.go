package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/rosterkit/adapter/tui"
	"github.com/felixgeelhaar/rosterkit/internal/app"
	"github.com/felixgeelhaar/rosterkit/internal/transport"
	"github.com/felixgeelhaar/rosterkit/pkg/config"
	"github.com/felixgeelhaar/rosterkit/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development defaults", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}

	var tokens transport.TokenSource
	if token := os.Getenv("ROSTERKIT_CSRF_TOKEN"); token != "" {
		tokens = transport.StaticTokenSource(token)
	}

	container, err := app.NewContainer(ctx, cfg, logger, tokens)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	model := tui.NewQuickScheduleModel(container.Transport, container.Validator, logger)
	program := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		logger.Error("terminal program failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
