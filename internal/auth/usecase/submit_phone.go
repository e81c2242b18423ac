package usecase

import (
	"context"

	"github.com/tabesh/tabesh-auth/internal/auth/entity"
	"github.com/tabesh/tabesh-auth/internal/pkg/goerror"
	"github.com/tabesh/tabesh-auth/internal/pkg/i18n"
	"github.com/tabesh/tabesh-auth/internal/pkg/phone"
)

type SubmitPhoneInput struct {
	Mobile string `json:"mobile" validate:"required,mobile"`
}

// SubmitPhone normalizes raw, checks whether the account exists and asks for
// a code to be sent. On success the session moves to code entry with the
// resend cooldown armed.
func (c *Controller) SubmitPhone(ctx context.Context, raw string) error {
	ctx, span := c.startSpan(ctx, "SubmitPhone")
	defer span.End()

	in := SubmitPhoneInput{Mobile: phone.Normalize(raw)}

	c.mu.Lock()
	if err := c.begin(entity.StepPhoneEntry); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.validator.Validate(in); err != nil {
		c.apply(ctx, entity.Invalid{Message: c.tr.T(i18n.KeyInvalidMobile)})
		c.mu.Unlock()
		return goerror.NewInvalidInput(err)
	}
	c.apply(ctx, entity.PhoneSubmitted{Phone: in.Mobile})
	epoch := c.epoch.Load()
	c.mu.Unlock()

	isNew, reply, err := c.dispatch(ctx, in.Mobile)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stale(epoch) {
		return nil
	}
	if err != nil {
		c.apply(ctx, entity.RequestFailed{Message: c.failure(ctx, "send_code", err)})
		return err
	}

	c.apply(ctx, entity.CodeDispatched{
		IsNewAccount: isNew,
		Message:      orDefault(reply.Message, c.tr.T(i18n.KeyCodeSent)),
	})
	return nil
}

// dispatch runs the existence check then the code dispatch.
func (c *Controller) dispatch(ctx context.Context, mobile string) (bool, *entity.Reply, error) {
	exists, err := c.api.CheckExistence(ctx, mobile)
	if err != nil {
		return false, nil, err
	}

	reply, err := c.api.SendCode(ctx, mobile)
	if err != nil {
		return false, nil, err
	}
	if !reply.Success {
		return false, nil, refused(reply.Message)
	}

	return !exists, reply, nil
}
