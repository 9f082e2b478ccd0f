// Package server wires the reference API server: configuration, logging, the
// in-memory user store and the HTTP listener with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/authapp/internal/common"
	"github.com/dmitrijs2005/authapp/internal/logging"
	"github.com/dmitrijs2005/authapp/internal/server/config"
	"github.com/dmitrijs2005/authapp/internal/server/httpapi"
	"github.com/dmitrijs2005/authapp/internal/server/users"
)

const generatedSecretSize = 32

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *users.Service
	handler     http.Handler
}

func NewApp(c *config.Config) (*App, error) {
	logger, err := logging.New(logging.Options{Level: c.LogLevel, Format: c.LogFormat, Output: os.Stdout})
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	if c.SecretKey == "" {
		secret, err := common.MakeRandHexString(generatedSecretSize)
		if err != nil {
			return nil, fmt.Errorf("secret generation error: %w", err)
		}
		c.SecretKey = secret
		logger.Warn(context.Background(), "no secret key configured, using a random one; tokens will not survive a restart")
	}

	us := users.NewService(users.NewMemoryRepository(), c)

	return &App{
		config:      c,
		logger:      logger,
		userService: us,
		handler:     httpapi.NewRouter(us, logger),
	}, nil
}

// Handler returns the API routes, for use with httptest.
func (app *App) Handler() http.Handler {
	return app.handler
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			cancelFunc()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

// Run listens on the configured address until ctx is cancelled or a signal
// arrives, then drains in-flight requests for up to ShutdownTimeout.
func (app *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", app.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", app.config.Addr, err)
	}
	return app.serve(ctx, ln)
}

func (app *App) serve(ctx context.Context, ln net.Listener) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	stop := app.initSignalHandler(cancelFunc)
	defer stop()

	srv := &http.Server{
		Handler:           app.handler,
		ReadHeaderTimeout: app.config.ShutdownTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	app.logger.Info(ctx, "Starting app...", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
