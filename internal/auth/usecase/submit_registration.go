package usecase

import (
	"context"
	"strings"

	"github.com/tabesh/tabesh-auth/internal/auth/entity"
	"github.com/tabesh/tabesh-auth/internal/pkg/goerror"
	"github.com/tabesh/tabesh-auth/internal/pkg/i18n"
	"go.opentelemetry.io/otel/trace"
)

// SubmitRegistration completes a new account. The code verified on the
// previous step is sent again with the profile fields in a single call.
// The organization name is optional even when IsOrganization is set.
func (c *Controller) SubmitRegistration(ctx context.Context, reg entity.Registration) error {
	ctx, span := c.startSpan(ctx, "SubmitRegistration")
	defer span.End()

	reg.FirstName = strings.TrimSpace(reg.FirstName)
	reg.LastName = strings.TrimSpace(reg.LastName)
	reg.OrganizationName = strings.TrimSpace(reg.OrganizationName)
	if !c.cfg.AllowOrganization {
		reg.IsOrganization = false
	}
	if !reg.IsOrganization {
		reg.OrganizationName = ""
	}

	c.mu.Lock()
	if err := c.begin(entity.StepRegistration); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.cfg.RequireName {
		if err := c.validator.Validate(reg); err != nil {
			c.apply(ctx, entity.Invalid{Message: c.tr.T(i18n.KeyMissingName)})
			c.mu.Unlock()
			return goerror.NewInvalidInput(err)
		}
	}
	c.apply(ctx, entity.RegistrationSubmitted{Registration: reg})
	req := entity.VerifyRequest{
		Mobile:       c.session.PhoneNumber,
		Code:         c.session.Code,
		Registration: &reg,
	}
	epoch := c.epoch.Load()
	c.mu.Unlock()

	reply, err := c.verify(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stale(epoch) {
		return nil
	}
	if err != nil {
		c.apply(ctx, entity.RequestFailed{Message: c.failure(ctx, "register", err)})
		return err
	}

	c.apply(ctx, entity.Registered{
		Message:     orDefault(reply.Message, c.tr.T(i18n.KeyRegistrationSuccess)),
		RedirectURL: orURL(reply.RedirectURL, c.cfg.RedirectURL),
	})
	c.scheduleRedirect(ctx)
	return nil
}

// scheduleRedirect navigates once the success message has been visible for
// RedirectDelay. Callers hold c.mu.
func (c *Controller) scheduleRedirect(ctx context.Context) {
	if c.navigator == nil || c.clock == nil {
		return
	}
	if c.redirect != nil {
		c.redirect.Stop()
	}

	url := c.session.RedirectURL
	c.redirect = c.clock.AfterFunc(c.cfg.RedirectDelay, func() {
		if c.closed.Load() {
			return
		}
		c.navigator.Navigate(url)
	})
	trace.SpanFromContext(ctx).AddEvent("redirect scheduled")
}
