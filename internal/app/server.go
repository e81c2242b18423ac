package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Start serves the verifier, when enabled, and runs the login session. The
// returned channel is closed when the session ends or a signal arrives.
func (a *App) Start() <-chan struct{} {
	terminateChan := make(chan struct{})
	var once sync.Once
	terminate := func() {
		once.Do(func() { close(terminateChan) })
	}

	if a.httpServer != nil {
		go func() {
			slog.Info("verifier server listening", "address", a.listener.Addr().String())

			if err := a.httpServer.Serve(a.listener); !errors.Is(err, http.ErrServerClosed) {
				slog.Error("failed to serve verifier server", "error", err)
				os.Exit(1)
			}
		}()
	}

	if !a.goroutine.Go(a.ctx, "auth.session", func(ctx context.Context) error {
		defer terminate()

		url, err := a.auth.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return err
		}

		a.redirectURL.Store(url)
		slog.InfoContext(ctx, "login session finished", "redirect_url", url)
		return nil
	}) {
		terminate()
	}

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sigint)

		select {
		case <-sigint:
			slog.Info("application gracefully shutdown")
		case <-terminateChan:
		case <-a.ctx.Done():
		}

		terminate()
	}()

	return terminateChan
}

// Stop ends the session, shuts the verifier down and closes resources.
func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}

	if err := a.auth.Close(); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "Auth Session", "error", err)
	}

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", "Verifier Server", "error", err)
		}
	}

	slog.InfoContext(ctx, "waiting for all goroutine to finish")
	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "error from goroutines executions", "error", err)
	}
	slog.InfoContext(ctx, "all goroutines have finished successfully")

	for _, closer := range a.closers {
		if err := closer.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", closer.name, "error", err)
		}
	}
}
