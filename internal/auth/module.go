package auth

import (
	"context"
	"io"
	"net/http"

	"github.com/tabesh/tabesh-auth/internal/auth/inbound"
	"github.com/tabesh/tabesh-auth/internal/auth/outbound/api"
	"github.com/tabesh/tabesh-auth/internal/auth/usecase"
	"github.com/tabesh/tabesh-auth/internal/pkg/clock"
	"github.com/tabesh/tabesh-auth/internal/pkg/config"
	"github.com/tabesh/tabesh-auth/internal/pkg/goroutine"
	"github.com/tabesh/tabesh-auth/internal/pkg/i18n"
	"github.com/tabesh/tabesh-auth/internal/pkg/instrument"
	"github.com/tabesh/tabesh-auth/internal/pkg/otpinput"
	"github.com/tabesh/tabesh-auth/internal/pkg/uid"
	"github.com/tabesh/tabesh-auth/internal/pkg/validator"
)

type Dependency struct {
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Translator *i18n.Translator           `validate:"required"`
	In         io.Reader                  `validate:"required"`
	Out        io.Writer                  `validate:"required"`

	// BaseURL overrides auth.api.base_url, e.g. to target the local verifier.
	BaseURL    string
	HTTPClient *http.Client
}

// Module is one login session wired to a terminal.
type Module struct {
	ctrl     *usecase.Controller
	terminal *inbound.Terminal
	ticker   *inbound.TickHost
}

// UsecaseConfig reads the flow settings from cfg.
func UsecaseConfig(cfg config.Config) usecase.Config {
	return usecase.Config{
		OTPLength:         cfg.GetInt("auth.otp_length"),
		ResendWindow:      cfg.GetSecond("auth.resend_window_seconds"),
		RedirectURL:       cfg.GetString("auth.redirect_url"),
		RedirectDelay:     cfg.GetSecond("auth.redirect_delay_seconds"),
		RequireName:       cfg.GetBool("auth.require_name"),
		AllowOrganization: cfg.GetBool("auth.allow_organization"),
	}
}

func New(ctx context.Context, dep Dependency) (*Module, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	baseURL := dep.BaseURL
	if baseURL == "" {
		baseURL = dep.Config.GetString("auth.api.base_url")
	}
	client := api.New(api.Config{
		BaseURL:    baseURL,
		Nonce:      dep.Config.GetString("auth.api.nonce"),
		Timeout:    dep.Config.GetSecond("auth.api.timeout_seconds"),
		HTTPClient: dep.HTTPClient,
	}, dep.Instrument)

	ucCfg := UsecaseConfig(dep.Config)

	direction := otpinput.DirectionLTR
	if dep.Translator.RTL() {
		direction = otpinput.DirectionRTL
	}

	ticker := inbound.NewTickHost(ctx, dep.Clock, dep.Goroutine)
	terminal := inbound.NewTerminal(inbound.TerminalConfig{
		OTPLength:         ucCfg.OTPLength,
		AllowOrganization: ucCfg.AllowOrganization,
		Direction:         direction,
	}, dep.Translator, dep.In, dep.Out)

	ctrl := usecase.New(usecase.Dependency{
		Config:        ucCfg,
		API:           client,
		Ticker:        ticker,
		Navigator:     terminal,
		Clock:         dep.Clock,
		Validator:     dep.Validator,
		Translator:    dep.Translator,
		Instrument:    dep.Instrument,
		CorrelationID: dep.UUID.Generate(),
		Listener:      terminal.Render,
	})
	ticker.Bind(ctrl.OnTick)
	terminal.Attach(ctrl)

	return &Module{ctrl: ctrl, terminal: terminal, ticker: ticker}, nil
}

// Run drives the session until the redirect and returns its URL.
func (m *Module) Run(ctx context.Context) (string, error) {
	return m.terminal.Run(ctx)
}

// Close ends the session and its ticker.
func (m *Module) Close() error {
	err := m.ctrl.Close()
	m.ticker.Stop()
	return err
}
