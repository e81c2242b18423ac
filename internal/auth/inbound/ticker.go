package inbound

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tabesh/tabesh-auth/internal/pkg/clock"
	"github.com/tabesh/tabesh-auth/internal/pkg/goroutine"
)

// TickHost runs the one-second resend countdown for a controller. Start and
// Stop only signal the loop, so they are safe to call with the controller
// locked.
type TickHost struct {
	ctx      context.Context
	clock    clock.Clocker
	gm       *goroutine.Manager
	interval time.Duration

	mu     sync.Mutex
	onTick func()
	stop   chan struct{}
}

// NewTickHost returns a stopped host ticking every second.
func NewTickHost(ctx context.Context, clk clock.Clocker, gm *goroutine.Manager) *TickHost {
	return &TickHost{ctx: ctx, clock: clk, gm: gm, interval: time.Second}
}

// Bind sets the function called on each tick.
func (h *TickHost) Bind(onTick func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onTick = onTick
}

// Start begins ticking unless already running. It reports false once the
// host context is done.
func (h *TickHost) Start() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stop != nil {
		return true
	}

	if h.ctx.Err() != nil {
		return false
	}

	stop := make(chan struct{})
	onTick := h.onTick
	if !h.gm.Go(h.ctx, "auth.ticker", func(ctx context.Context) error {
		h.loop(ctx, stop, onTick)
		return nil
	}) {
		// The countdown must not stall on a full pool.
		slog.WarnContext(h.ctx, "goroutine manager refused ticker, running it unmanaged")
		go h.loop(h.ctx, stop, onTick)
	}
	h.stop = stop
	return true
}

// Stop ends ticking. It does not wait for the loop to exit.
func (h *TickHost) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stop == nil {
		return
	}
	close(h.stop)
	h.stop = nil
}

// Running reports whether the loop has been started and not stopped.
func (h *TickHost) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stop != nil
}

func (h *TickHost) loop(ctx context.Context, stop <-chan struct{}, onTick func()) {
	t := h.clock.NewTicker(h.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-t.C():
			select {
			case <-stop:
				return
			default:
			}
			if onTick != nil {
				onTick()
			}
		}
	}
}
