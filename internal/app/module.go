package app

import (
	"log/slog"
	"strings"

	"github.com/tabesh/tabesh-auth/internal/auth"
	"github.com/tabesh/tabesh-auth/internal/verifier"
)

func (a *App) initModules() error {
	var baseURL string

	if a.config.GetBool("verifier.enabled") {
		mod, err := verifier.New(verifier.Dependency{
			Router:     a.router,
			Config:     a.config,
			Instrument: a.ins,
			Clock:      a.clock,
			Totp:       a.totp,
			Validator:  a.validator,
		})
		if err != nil {
			slog.Error("failed to init module verifier", "error", err)
			return err
		}
		a.verifier = mod

		prefix := strings.TrimRight(a.config.GetString("verifier.prefix"), "/")
		baseURL = "http://" + a.listener.Addr().String() + prefix
	}

	mod, err := auth.New(a.ctx, auth.Dependency{
		Config:     a.config,
		Instrument: a.ins,
		Validator:  a.validator,
		Clock:      a.clock,
		Goroutine:  a.goroutine,
		UUID:       a.uuid,
		Translator: a.translator,
		In:         a.in,
		Out:        a.out,
		BaseURL:    baseURL,
	})
	if err != nil {
		slog.Error("failed to init module auth", "error", err)
		return err
	}
	a.auth = mod

	return nil
}
