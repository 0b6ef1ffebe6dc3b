package internal

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

type runConfig struct {
	baseCtx         context.Context
	logger          *slog.Logger
	listener        net.Listener
	startupHooks    []func(context.Context) error
	shutdownHooks   []func(context.Context) error
	shutdownTimeout time.Duration
}

// RunOption configures Run.
type RunOption func(*runConfig)

func Logger(l *slog.Logger) RunOption {
	return func(c *runConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func ShutdownTimeout(d time.Duration) RunOption {
	return func(c *runConfig) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

// StartupHook runs before the server accepts connections. A failing hook
// aborts startup.
func StartupHook(fn func(context.Context) error) RunOption {
	return func(c *runConfig) {
		if fn != nil {
			c.startupHooks = append(c.startupHooks, fn)
		}
	}
}

// ShutdownHook runs after the server stopped, in registration order.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return func(c *runConfig) {
		if fn != nil {
			c.shutdownHooks = append(c.shutdownHooks, fn)
		}
	}
}

// WithContext sets the parent of the signal context. Cancelling it shuts
// the server down.
func WithContext(ctx context.Context) RunOption {
	return func(c *runConfig) {
		if ctx != nil {
			c.baseCtx = ctx
		}
	}
}

// WithListener serves on ln instead of listening on the address.
func WithListener(ln net.Listener) RunOption {
	return func(c *runConfig) {
		c.listener = ln
	}
}

// Run serves the app on addr until SIGINT/SIGTERM or the base context is
// done. The job manager, when configured, starts before serving and stops
// after the server.
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := &runConfig{
		baseCtx:         context.Background(),
		logger:          a.logger,
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if a.jobs != nil {
		cfg.startupHooks = append(cfg.startupHooks, a.jobs.StartFunc())
		cfg.shutdownHooks = append([]func(context.Context) error{a.jobs.Shutdown()}, cfg.shutdownHooks...)
	}
	if addr == "" {
		addr = ":8080"
	}

	ctx, cancel := signal.NotifyContext(cfg.baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for _, hook := range cfg.startupHooks {
		if err := hook(ctx); err != nil {
			return err
		}
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           a,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
	}

	ln := cfg.listener
	if ln == nil {
		var err error
		if ln, err = net.Listen("tcp", addr); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		cfg.logger.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var errs []error
	select {
	case err := <-errCh:
		if err != nil {
			errs = append(errs, err)
		}
	case <-ctx.Done():
	}

	cfg.logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	for _, hook := range cfg.shutdownHooks {
		if err := hook(shutdownCtx); err != nil {
			cfg.logger.Error("shutdown hook failed", slog.Any("error", err))
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	cfg.logger.Info("shutdown completed")
	return nil
}
