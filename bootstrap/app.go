package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kbukum/livesse/component"
	"github.com/kbukum/livesse/logger"
	"github.com/kbukum/livesse/version"
)

const defaultGracefulTimeout = 15 * time.Second

// App owns the lifecycle of a binary's components. C is the config type.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	onStart         []Hook
	onStop          []Hook
}

// NewApp applies defaults to cfg, validates it and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()

	o := appOptions{gracefulTimeout: defaultGracefulTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	app := &App[C]{
		Name:            base.Name,
		Version:         version.Short(),
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		Logger:          o.logger,
		gracefulTimeout: o.gracefulTimeout,
	}
	if app.Logger == nil {
		logger.Init(&base.Logging)
		logger.RegisterDefaults()
		app.Logger = logger.GetGlobalLogger()
	}
	app.Components.SetStopTimeout(app.gracefulTimeout)
	return app, nil
}

// RegisterComponent adds a component. Components start in registration order.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// ReadyCheck reports every component that is not healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		detail := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			detail += "(" + h.Message + ")"
		}
		unhealthy = append(unhealthy, detail)
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %s", strings.Join(unhealthy, ", "))
	}
	return nil
}

// Run starts all components and blocks until ctx ends or SIGINT/SIGTERM
// arrives, then shuts down.
func (a *App[C]) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.startup(ctx); err != nil {
		if stopErr := a.Shutdown(); stopErr != nil {
			return errors.Join(err, stopErr)
		}
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	<-ctx.Done()
	a.Logger.Info("Shutdown requested", logger.Fields("reason", context.Cause(ctx).Error()))
	return a.Shutdown()
}

func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("Starting application", logger.Fields(
		"name", a.Name,
		"version", a.Version,
	))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	for _, d := range a.Components.Describe() {
		a.Logger.Info("Component", logger.Fields(
			logger.FieldComponent, d.Name,
			"type", d.Type,
			"details", d.Details,
		))
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}

	a.Logger.Info("Startup complete", logger.Fields("duration", time.Since(start).String()))
	return nil
}

// Shutdown stops all components in reverse order, then runs OnStop hooks,
// all within the graceful timeout.
func (a *App[C]) Shutdown() error {
	a.Logger.Info("Shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error
	if err := a.Components.StopAll(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.Fields(logger.FieldError, err.Error()))
		errs = append(errs, err)
	}

	a.Logger.Info("Application shutdown complete")
	return errors.Join(errs...)
}
