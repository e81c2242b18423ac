package verifier

import (
	"github.com/tabesh/tabesh-auth/internal/pkg/clock"
	"github.com/tabesh/tabesh-auth/internal/pkg/config"
	"github.com/tabesh/tabesh-auth/internal/pkg/instrument"
	"github.com/tabesh/tabesh-auth/internal/pkg/otp"
	"github.com/tabesh/tabesh-auth/internal/pkg/router"
	"github.com/tabesh/tabesh-auth/internal/pkg/validator"
	"github.com/tabesh/tabesh-auth/internal/verifier/inbound"
	"github.com/tabesh/tabesh-auth/internal/verifier/outbound/memory"
	"github.com/tabesh/tabesh-auth/internal/verifier/usecase"
)

type Dependency struct {
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Totp       otp.OTP                    `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

// Module is the in-process verification service.
type Module struct {
	Store  *memory.Store
	Outbox *memory.Outbox
}

func New(dep Dependency) (*Module, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	store := memory.NewStore(dep.Instrument, dep.Config.GetArray("verifier.accounts")...)
	outbox := memory.NewOutbox(dep.Config.GetBool("verifier.log_codes"))

	uc := usecase.New(usecase.Dependency{
		Store:     store,
		Sender:    outbox,
		Totp:      dep.Totp,
		Clock:     dep.Clock,
		Validator: dep.Validator,
		Ins:       dep.Instrument,
		Config: usecase.Config{
			ResendWindow:       dep.Config.GetSecond("auth.resend_window_seconds"),
			MaxAttempts:        dep.Config.GetInt("verifier.max_attempts"),
			RegistrationWindow: dep.Config.GetSecond("verifier.registration_window_seconds"),
			RedirectURL:        dep.Config.GetString("auth.redirect_url"),
		},
	})

	inbound.RegisterHTTPEndpoint(dep.Router, dep.Config.GetString("verifier.prefix"), uc)

	return &Module{Store: store, Outbox: outbox}, nil
}
