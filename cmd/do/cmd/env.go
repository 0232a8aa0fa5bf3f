package cmd

import (
	"context"
	"fmt"

	"github.com/templui/lifeplan/internal/app"
	"github.com/templui/lifeplan/internal/config"
	"github.com/templui/lifeplan/internal/logger"
)

// loadApp builds the full application from the environment, the same way
// the server does, running pending migrations first.
func loadApp(ctx context.Context) (*app.App, error) {
	cfg := config.Load()
	logger.Init(logger.Options{
		Development: cfg.IsDevelopment(),
		Environment: cfg.AppEnv,
	})

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize app: %w", err)
	}
	return a, nil
}
