package usecase

import (
	"context"
	"time"

	"github.com/tabesh/tabesh-auth/internal/pkg/clock"
	"github.com/tabesh/tabesh-auth/internal/pkg/instrument"
	"github.com/tabesh/tabesh-auth/internal/pkg/otp"
	"github.com/tabesh/tabesh-auth/internal/pkg/validator"
	"github.com/tabesh/tabesh-auth/internal/verifier/entity"
	"go.opentelemetry.io/otel/trace"
)

type repoStore interface {
	GetAccount(ctx context.Context, mobile string) (*entity.Account, error)
	CreateAccount(ctx context.Context, acc entity.Account) error
	GetChallenge(ctx context.Context, mobile string) (*entity.Challenge, error)
	SaveChallenge(ctx context.Context, ch entity.Challenge) error
	DeleteChallenge(ctx context.Context, mobile string) error
}

type codeSender interface {
	SendCode(ctx context.Context, mobile, code string) error
}

// Config tunes the service.
type Config struct {
	// ResendWindow is the minimum wait between two codes for one number.
	ResendWindow time.Duration
	// MaxAttempts is the number of wrong codes tolerated per issued code.
	MaxAttempts int
	// RegistrationWindow is how long a verified code can complete the
	// registration of a new account.
	RegistrationWindow time.Duration
	// RedirectURL is returned to clients after a successful login.
	RedirectURL string
}

type Usecase struct {
	store     repoStore
	sender    codeSender
	totp      otp.OTP
	clock     clock.Clocker
	validator validator.Validator
	ins       instrument.Instrumentation
	cfg       Config
}

type Dependency struct {
	Store     repoStore
	Sender    codeSender
	Totp      otp.OTP
	Clock     clock.Clocker
	Validator validator.Validator
	Ins       instrument.Instrumentation
	Config    Config
}

func New(dep Dependency) *Usecase {
	if dep.Config.MaxAttempts <= 0 {
		dep.Config.MaxAttempts = 5
	}
	if dep.Config.RegistrationWindow <= 0 {
		dep.Config.RegistrationWindow = 15 * time.Minute
	}

	return &Usecase{
		store:     dep.Store,
		sender:    dep.Sender,
		totp:      dep.Totp,
		clock:     dep.Clock,
		validator: dep.Validator,
		ins:       dep.Ins,
		cfg:       dep.Config,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("verifier.usecase").Start(ctx, name)
}
