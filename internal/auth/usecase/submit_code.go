package usecase

import (
	"context"

	"github.com/tabesh/tabesh-auth/internal/auth/entity"
	"github.com/tabesh/tabesh-auth/internal/pkg/goerror"
	"github.com/tabesh/tabesh-auth/internal/pkg/i18n"
	"github.com/tabesh/tabesh-auth/internal/pkg/phone"
)

type SubmitCodeInput struct {
	Code string `json:"code" validate:"required,otp"`
}

// SubmitCode verifies code for the current phone number. A new account moves
// on to registration keeping the code, an existing one to the redirect. A
// rejected code is cleared so it has to be typed again.
func (c *Controller) SubmitCode(ctx context.Context, code string) error {
	ctx, span := c.startSpan(ctx, "SubmitCode")
	defer span.End()

	in := SubmitCodeInput{Code: phone.FoldDigits(code)}

	c.mu.Lock()
	if err := c.begin(entity.StepCodeEntry); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.validator.Validate(in); err != nil || len(in.Code) != c.cfg.OTPLength {
		c.apply(ctx, entity.Invalid{Message: c.tr.T(i18n.KeyIncompleteCode, c.cfg.OTPLength)})
		c.mu.Unlock()
		return goerror.NewInvalidInput(err, "code", "must be exactly the configured number of digits")
	}
	c.apply(ctx, entity.CodeSubmitted{Code: in.Code})
	req := entity.VerifyRequest{Mobile: c.session.PhoneNumber, Code: in.Code}
	epoch := c.epoch.Load()
	c.mu.Unlock()

	reply, err := c.verify(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stale(epoch) {
		return nil
	}
	if err != nil {
		c.apply(ctx, entity.CodeRejected{Message: c.failure(ctx, "verify_code", err)})
		return err
	}

	if reply.NeedsRegistration {
		c.apply(ctx, entity.CodeVerified{
			NeedsRegistration: true,
			Message:           orDefault(reply.Message, c.tr.T(i18n.KeyRegistrationRequired)),
		})
		return nil
	}

	c.apply(ctx, entity.CodeVerified{
		Message:     orDefault(reply.Message, c.tr.T(i18n.KeyLoginSuccess)),
		RedirectURL: orURL(reply.RedirectURL, c.cfg.RedirectURL),
	})
	c.scheduleRedirect(ctx)
	return nil
}

func (c *Controller) verify(ctx context.Context, req entity.VerifyRequest) (*entity.VerifyReply, error) {
	reply, err := c.api.VerifyCode(ctx, req)
	if err != nil {
		return nil, err
	}
	if !reply.Success {
		return nil, refused(reply.Message)
	}
	return reply, nil
}
