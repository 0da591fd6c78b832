package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"sharpline/internal/config"
	"sharpline/internal/gateway/events"
	"sharpline/internal/logger"
	"sharpline/internal/prediction"
	"sharpline/internal/store"
	apihttp "sharpline/internal/transport/http/api"
)

// App owns the wired prediction service and its HTTP front.
type App struct {
	cfg        *config.Config
	service    *prediction.Service
	store      store.Store
	publisher  events.Publisher
	prompts    *prediction.PromptRegistry
	httpServer *apihttp.Server
	Summary    *StartupSummary
}

// NewApp builds the application from cfg without starting it.
func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildAppWithWire(context.Background(), cfg)
}

// Run serves HTTP until ctx is canceled, then releases resources.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.service == nil {
		return fmt.Errorf("app not initialized")
	}
	defer a.Close()
	if a.Summary != nil {
		a.Summary.Print()
	}
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Infof("http listening on %s", a.httpServer.Addr())
		if err := a.httpServer.Start(ctx); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	return group.Wait()
}

// Service exposes the prediction service for in-process callers.
func (a *App) Service() *prediction.Service {
	if a == nil {
		return nil
	}
	return a.service
}

// Store exposes the record store.
func (a *App) Store() store.Store {
	if a == nil {
		return nil
	}
	return a.store
}

// Handler returns the HTTP handler without binding a listener.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler()
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}
