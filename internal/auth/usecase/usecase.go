package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tabesh/tabesh-auth/internal/auth/entity"
	"github.com/tabesh/tabesh-auth/internal/pkg/clock"
	"github.com/tabesh/tabesh-auth/internal/pkg/goerror"
	"github.com/tabesh/tabesh-auth/internal/pkg/i18n"
	"github.com/tabesh/tabesh-auth/internal/pkg/instrument"
	"github.com/tabesh/tabesh-auth/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

var (
	// ErrInFlight is returned when a submit arrives while another is pending.
	ErrInFlight = errors.New("auth: a request is already in flight")
	// ErrWrongStep is returned when an action is not available on the current step.
	ErrWrongStep = errors.New("auth: action not available on this step")
)

// Default values used when Config leaves a field at zero.
const (
	DefaultOTPLength     = 5
	DefaultResendWindow  = 120 * time.Second
	DefaultRedirectDelay = time.Second
)

// Config is the flow configuration handed over by the hosting page.
type Config struct {
	OTPLength         int
	ResendWindow      time.Duration
	RedirectURL       string
	RedirectDelay     time.Duration
	RequireName       bool
	AllowOrganization bool
}

func (c Config) withDefaults() Config {
	if c.OTPLength <= 0 {
		c.OTPLength = DefaultOTPLength
	}
	if c.ResendWindow <= 0 {
		c.ResendWindow = DefaultResendWindow
	}
	if c.RedirectDelay <= 0 {
		c.RedirectDelay = DefaultRedirectDelay
	}
	return c
}

// API is the remote verification service.
type API interface {
	CheckExistence(ctx context.Context, mobile string) (bool, error)
	SendCode(ctx context.Context, mobile string) (*entity.Reply, error)
	VerifyCode(ctx context.Context, in entity.VerifyRequest) (*entity.VerifyReply, error)
}

// Ticker is the host's one-second timer. The host calls Controller.OnTick on
// every tick between Start and Stop. Start must not call OnTick synchronously.
type Ticker interface {
	// Start reports whether ticking is running afterwards.
	Start() bool
	Stop()
}

// Navigator performs the final redirect.
type Navigator interface {
	Navigate(url string)
}

// Translator resolves user-facing messages.
type Translator interface {
	T(key i18n.Key, args ...any) string
}

// Dependency lists what a Controller needs.
type Dependency struct {
	Config     Config
	API        API
	Ticker     Ticker
	Navigator  Navigator
	Clock      clock.Clocker
	Validator  validator.Validator
	Translator Translator
	Instrument instrument.Instrumentation
	// CorrelationID tags every request of this login session.
	CorrelationID string
	// Listener, when set, receives every new session. It runs with the
	// controller locked and must not call back into it.
	Listener func(entity.Session)
}

// Controller drives one login session. It is safe for concurrent use by the
// host's input loop, its ticker and in-flight replies.
type Controller struct {
	cfg       Config
	api       API
	ticker    Ticker
	navigator Navigator
	clock     clock.Clocker
	validator validator.Validator
	tr        Translator
	ins       instrument.Instrumentation
	cid       string
	listener  func(entity.Session)

	transitions    metric.Int64Counter
	remoteFailures metric.Int64Counter

	mu       sync.Mutex
	session  entity.Session
	ticking  bool
	redirect clock.Timer

	// epoch changes whenever a pending reply must be discarded.
	epoch  atomic.Uint64
	closed atomic.Bool
}

// New builds a Controller positioned on phone entry.
func New(dep Dependency) *Controller {
	cfg := dep.Config.withDefaults()

	ins := dep.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	c := &Controller{
		cfg:       cfg,
		api:       dep.API,
		ticker:    dep.Ticker,
		navigator: dep.Navigator,
		clock:     dep.Clock,
		validator: dep.Validator,
		tr:        dep.Translator,
		ins:       ins,
		cid:       dep.CorrelationID,
		listener:  dep.Listener,
		session: entity.Session{
			Cooldown: entity.Cooldown{Window: int(cfg.ResendWindow / time.Second)},
		},
	}

	meter := ins.Meter("auth.usecase")

	var err error
	c.transitions, err = meter.Int64Counter("tabesh.auth.transitions", metric.WithDescription("Login step changes"))
	if err != nil {
		slog.Error("failed to create transitions counter", "error", err)
	}
	c.remoteFailures, err = meter.Int64Counter("tabesh.auth.remote_failures", metric.WithDescription("Failed calls to the verification service"))
	if err != nil {
		slog.Error("failed to create remote failures counter", "error", err)
	}

	return c
}

// Config returns the effective configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// Snapshot returns a copy of the current session.
func (c *Controller) Snapshot() entity.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Controller) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if c.cid != "" && instrument.GetCorrelationID(ctx) == "" {
		ctx = instrument.SetCorrelationID(ctx, c.cid)
	}
	return c.ins.Tracer("auth.usecase").Start(ctx, name)
}

// apply runs ev through the state machine, keeps the ticker in line with the
// new session and notifies the listener. Callers hold c.mu.
func (c *Controller) apply(ctx context.Context, ev entity.Event) {
	prev := c.session
	c.session = HandleEvent(prev, ev)

	if prev.Step != c.session.Step {
		slog.InfoContext(ctx, "login step changed",
			"from", prev.Step.String(),
			"to", c.session.Step.String(),
			"mobile", c.session.PhoneNumber,
		)
		if c.transitions != nil {
			c.transitions.Add(ctx, 1, metric.WithAttributes(
				attribute.String("from", prev.Step.String()),
				attribute.String("to", c.session.Step.String()),
			))
		}
	}

	c.syncTicker()

	if c.listener != nil {
		c.listener(c.session)
	}
}

func (c *Controller) syncTicker() {
	if c.ticker == nil {
		return
	}

	want := c.session.Ticking() && !c.closed.Load()
	if want == c.ticking {
		return
	}

	if !want {
		c.ticking = false
		c.ticker.Stop()
		return
	}

	// Left false on refusal so the next transition tries again.
	c.ticking = c.ticker.Start()
	if !c.ticking {
		slog.Warn("resend countdown could not start", "remaining", c.session.Cooldown.Remaining)
	}
}

// begin checks that an action may start on step. Callers hold c.mu.
func (c *Controller) begin(step entity.Step) error {
	if c.closed.Load() {
		return goerror.ErrClosed
	}
	if c.session.Step != step {
		return ErrWrongStep
	}
	if c.session.Loading {
		return ErrInFlight
	}
	return nil
}

// stale reports whether a reply started at epoch must be dropped. Callers
// hold c.mu.
func (c *Controller) stale(epoch uint64) bool {
	return c.closed.Load() || c.epoch.Load() != epoch
}

// failure turns a remote error into the message shown to the user and
// records it.
func (c *Controller) failure(ctx context.Context, op string, err error) string {
	typ := goerror.TypeOf(err)
	slog.WarnContext(ctx, "verification service call failed", "op", op, "type", typ.String(), "error", err)
	if c.remoteFailures != nil {
		c.remoteFailures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("op", op),
			attribute.String("type", typ.String()),
		))
	}

	switch typ {
	case goerror.TypeTransport:
		return c.tr.T(i18n.KeyNetworkError)
	case goerror.TypeBusiness:
		if msg := goerror.MessageOf(err); msg != "" {
			return msg
		}
	}
	return c.tr.T(i18n.KeyGenericError)
}

// refused converts a success:false reply into a business error.
func refused(msg string) error {
	return goerror.NewBusiness(msg, goerror.CodeInvalidInput)
}

func orDefault(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}

func orURL(url, fallback string) string {
	if url != "" {
		return url
	}
	return fallback
}
