package usecase

import (
	"context"

	"github.com/tabesh/tabesh-auth/internal/auth/entity"
	"github.com/tabesh/tabesh-auth/internal/pkg/goerror"
)

// ChangePhone leaves code entry for phone entry. A pending verification is
// abandoned and its reply ignored. The cooldown keeps its remaining time.
func (c *Controller) ChangePhone(ctx context.Context) error {
	return c.leave(ctx, "ChangePhone", entity.StepCodeEntry, entity.PhoneChangeRequested{})
}

// Back returns from registration to code entry, keeping the phone number.
func (c *Controller) Back(ctx context.Context) error {
	return c.leave(ctx, "Back", entity.StepRegistration, entity.BackRequested{})
}

func (c *Controller) leave(ctx context.Context, name string, from entity.Step, ev entity.Event) error {
	ctx, span := c.startSpan(ctx, name)
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return goerror.ErrClosed
	}
	if c.session.Step != from {
		return ErrWrongStep
	}

	c.epoch.Inc()
	c.apply(ctx, ev)
	return nil
}

// OnTick counts the resend cooldown down by one second. The host calls it
// once per second while the ticker is started.
func (c *Controller) OnTick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() || !c.session.Ticking() {
		return
	}
	c.apply(context.Background(), entity.Tick{})
}

// Close ends the session: the ticker stops, a scheduled redirect is
// cancelled and replies still in flight are dropped. Close is idempotent.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Swap(true) {
		return nil
	}
	c.epoch.Inc()

	if c.redirect != nil {
		c.redirect.Stop()
		c.redirect = nil
	}
	if c.ticking && c.ticker != nil {
		c.ticking = false
		c.ticker.Stop()
	}
	return nil
}
