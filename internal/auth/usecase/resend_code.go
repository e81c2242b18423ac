package usecase

import (
	"context"

	"github.com/tabesh/tabesh-auth/internal/auth/entity"
	"github.com/tabesh/tabesh-auth/internal/pkg/i18n"
)

// ResendCode asks for a new code once the cooldown has run out. The cooldown
// restarts before the request is sent and reopens if the request fails.
// Calling it while the cooldown is still running does nothing.
func (c *Controller) ResendCode(ctx context.Context) error {
	ctx, span := c.startSpan(ctx, "ResendCode")
	defer span.End()

	c.mu.Lock()
	if err := c.begin(entity.StepCodeEntry); err != nil {
		c.mu.Unlock()
		return err
	}
	if !c.session.Cooldown.CanResend() {
		c.mu.Unlock()
		return nil
	}
	c.apply(ctx, entity.ResendRequested{})
	mobile := c.session.PhoneNumber
	epoch := c.epoch.Load()
	c.mu.Unlock()

	reply, err := c.api.SendCode(ctx, mobile)
	if err == nil && !reply.Success {
		err = refused(reply.Message)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stale(epoch) {
		return nil
	}
	if err != nil {
		c.apply(ctx, entity.ResendFailed{Message: c.failure(ctx, "resend_code", err)})
		return err
	}

	c.apply(ctx, entity.ResendSucceeded{Message: orDefault(reply.Message, c.tr.T(i18n.KeyCodeSent))})
	return nil
}
