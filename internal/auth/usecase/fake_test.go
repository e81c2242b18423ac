package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tabesh/tabesh-auth/internal/auth/entity"
	"github.com/tabesh/tabesh-auth/internal/pkg/clock"
	"github.com/tabesh/tabesh-auth/internal/pkg/i18n"
	"github.com/tabesh/tabesh-auth/internal/pkg/validator"
)

type fakeAPI struct {
	mu sync.Mutex

	exists    bool
	existsErr error
	sendReply *entity.Reply
	sendErr   error
	verify    func(entity.VerifyRequest) (*entity.VerifyReply, error)

	// entered and gate, when set, let a test hold a call in flight.
	entered chan struct{}
	gate    chan struct{}

	checks   int
	sends    int
	verifies []entity.VerifyRequest
}

func (f *fakeAPI) hold() {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeAPI) CheckExistence(context.Context, string) (bool, error) {
	f.hold()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks++
	return f.exists, f.existsErr
}

func (f *fakeAPI) SendCode(context.Context, string) (*entity.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends++
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	if f.sendReply != nil {
		return f.sendReply, nil
	}
	return &entity.Reply{Success: true, Message: "code sent"}, nil
}

func (f *fakeAPI) VerifyCode(_ context.Context, in entity.VerifyRequest) (*entity.VerifyReply, error) {
	f.hold()
	f.mu.Lock()
	f.verifies = append(f.verifies, in)
	verify := f.verify
	f.mu.Unlock()
	if verify != nil {
		return verify(in)
	}
	return &entity.VerifyReply{Success: true}, nil
}

func (f *fakeAPI) calls() (checks, sends, verifies int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checks, f.sends, len(f.verifies)
}

type fakeTicker struct {
	mu      sync.Mutex
	starts  int
	stops   int
	running bool
	// refuse makes Start fail, as a full goroutine pool would.
	refuse bool
}

func (f *fakeTicker) Start() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	if f.refuse {
		return false
	}
	f.running = true
	return true
}

func (f *fakeTicker) setRefuse(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refuse = v
}

func (f *fakeTicker) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.running = false
}

func (f *fakeTicker) isRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

type fakeNavigator struct {
	mu   sync.Mutex
	urls []string
}

func (f *fakeNavigator) Navigate(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
}

func (f *fakeNavigator) visited() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.urls...)
}

type fakeTimer struct {
	clk     *fakeClock
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.clk.mu.Lock()
	defer t.clk.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

// fakeClock never fires on its own; tests call fire.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clk: c, d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) NewTicker(time.Duration) clock.Ticker { return nil }

// fire runs every pending timer and returns how many ran.
func (c *fakeClock) fire() int {
	c.mu.Lock()
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped {
			t.stopped = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
	return len(due)
}

func (c *fakeClock) lastDelay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.timers) == 0 {
		return 0
	}
	return c.timers[len(c.timers)-1].d
}

type harness struct {
	ctrl     *Controller
	api      *fakeAPI
	ticker   *fakeTicker
	nav      *fakeNavigator
	clock    *fakeClock
	tr       *i18n.Translator
	sessions []entity.Session
}

func newHarness(t *testing.T, api *fakeAPI, mutate ...func(*Config)) *harness {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator: %v", err)
	}

	cfg := Config{
		OTPLength:         5,
		ResendWindow:      120 * time.Second,
		RedirectURL:       "https://shop.example/my-account",
		RequireName:       true,
		AllowOrganization: true,
	}
	for _, m := range mutate {
		m(&cfg)
	}

	h := &harness{
		api:    api,
		ticker: &fakeTicker{},
		nav:    &fakeNavigator{},
		clock:  &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		tr:     i18n.New("en"),
	}
	h.ctrl = New(Dependency{
		Config:        cfg,
		API:           api,
		Ticker:        h.ticker,
		Navigator:     h.nav,
		Clock:         h.clock,
		Validator:     v,
		Translator:    h.tr,
		CorrelationID: "cid-test",
		Listener:      func(s entity.Session) { h.sessions = append(h.sessions, s) },
	})
	return h
}

// toCodeEntry submits a valid phone number and fails the test unless the
// session lands on code entry.
func (h *harness) toCodeEntry(t *testing.T) {
	t.Helper()
	if err := h.ctrl.SubmitPhone(context.Background(), "09123456789"); err != nil {
		t.Fatalf("SubmitPhone: %v", err)
	}
	if s := h.ctrl.Snapshot(); s.Step != entity.StepCodeEntry {
		t.Fatalf("step = %s, want code_entry", s.Step)
	}
}
