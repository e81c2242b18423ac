package app

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/tabesh/tabesh-auth/internal/auth"
	"github.com/tabesh/tabesh-auth/internal/pkg/clock"
	"github.com/tabesh/tabesh-auth/internal/pkg/config"
	"github.com/tabesh/tabesh-auth/internal/pkg/goroutine"
	"github.com/tabesh/tabesh-auth/internal/pkg/i18n"
	"github.com/tabesh/tabesh-auth/internal/pkg/instrument"
	"github.com/tabesh/tabesh-auth/internal/pkg/otp"
	"github.com/tabesh/tabesh-auth/internal/pkg/router"
	"github.com/tabesh/tabesh-auth/internal/pkg/uid"
	"github.com/tabesh/tabesh-auth/internal/pkg/validator"
	"github.com/tabesh/tabesh-auth/internal/verifier"
	"go.uber.org/atomic"
)

// App wires dependencies and manages the login session lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// streams
	in   io.Reader
	out  io.Writer
	logs io.Writer

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine  *goroutine.Manager
	validator  validator.Validator
	clock      clock.Clocker
	uuid       uid.StringID
	totp       otp.OTP
	translator *i18n.Translator

	// server
	router     *router.Router
	listener   net.Listener
	httpServer *http.Server

	// modules
	verifier *verifier.Module
	auth     *auth.Module

	redirectURL atomic.String

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application from CONFIG_PATH and binds the session to
// the process terminal.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
		in:     os.Stdin,
		out:    os.Stdout,
		logs:   os.Stderr,
	}

	app.initConfig()
	if err := app.init(); err != nil {
		slog.Error("failed to init application", "error", err)
		os.Exit(1)
	}

	return app
}

func newApp(cfg config.Config, in io.Reader, out, logs io.Writer) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
		in:     in,
		out:    out,
		logs:   logs,
		config: cfg,
	}

	if err := app.init(); err != nil {
		cancel()
		return nil, err
	}

	return app, nil
}

func (a *App) init() error {
	if err := a.initInstrument(); err != nil {
		return err
	}
	if err := a.initLibraries(); err != nil {
		return err
	}
	if err := a.initHTTPServer(); err != nil {
		return err
	}
	if err := a.initModules(); err != nil {
		return err
	}
	a.initClosers()

	return nil
}

// RedirectURL returns where the finished session navigated to, if it did.
func (a *App) RedirectURL() string {
	return a.redirectURL.Load()
}
