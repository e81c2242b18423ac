package app

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/tabesh/tabesh-auth/internal/pkg/clock"
	"github.com/tabesh/tabesh-auth/internal/pkg/config"
	"github.com/tabesh/tabesh-auth/internal/pkg/goroutine"
	"github.com/tabesh/tabesh-auth/internal/pkg/i18n"
	"github.com/tabesh/tabesh-auth/internal/pkg/instrument"
	"github.com/tabesh/tabesh-auth/internal/pkg/otp"
	"github.com/tabesh/tabesh-auth/internal/pkg/router"
	"github.com/tabesh/tabesh-auth/internal/pkg/uid"
	"github.com/tabesh/tabesh-auth/internal/pkg/validator"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	a.config = cfg
}

func (a *App) initInstrument() error {
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:           a.config.GetBool("instrument.enabled"),
		ServiceName:       a.config.GetString("instrument.service_name"),
		ServiceVersion:    a.config.GetString("instrument.service_version"),
		Environment:       a.config.GetString("instrument.env"),
		OTLPEndpoint:      a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:        a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio:  a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:   a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:        a.config.GetArray("instrument.log_mask_fields"),
		PartialMaskFields: a.config.GetArray("instrument.log_partial_mask_fields"),
		LogWriter:         a.logs,
		Debug:             a.config.GetBool("instrument.debug"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		return err
	}
	a.ins = ins

	return nil
}

func (a *App) initLibraries() error {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.max_goroutine"))
	a.translator = i18n.New(a.config.GetString("app.locale"))

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		return err
	}
	a.validator = validator

	a.totp = otp.NewTOTP(
		a.config.GetString("app.name"),
		uint(max(a.config.GetInt("verifier.code_period_seconds"), 0)),
		uint(max(a.config.GetInt("verifier.code_skew"), 0)),
		a.config.GetInt("auth.otp_length"),
	)

	return nil
}

// initHTTPServer prepares the local verification service. Without it the
// session talks to auth.api.base_url.
func (a *App) initHTTPServer() error {
	if !a.config.GetBool("verifier.enabled") {
		return nil
	}

	a.router = router.NewRouter(router.Config{
		Name:       a.config.GetString("app.name"),
		UUID:       a.uuid,
		Instrument: a.ins,
	})

	l, err := net.Listen("tcp", a.config.GetString("verifier.address"))
	if err != nil {
		slog.Error("failed to listen verifier address", "address", a.config.GetString("verifier.address"), "error", err)
		return err
	}
	a.listener = l

	a.httpServer = &http.Server{
		Handler:           router.WithCORS(a.router, a.config.GetArray("verifier.cors")),
		ReadHeaderTimeout: a.config.GetSecond("verifier.read_header_timeout_seconds"),
	}

	return nil
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
