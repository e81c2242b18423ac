package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tabesh/tabesh-auth/internal/pkg/goerror"
	"github.com/tabesh/tabesh-auth/internal/verifier/entity"
)

type SendOTPInput struct {
	Mobile string `json:"mobile" validate:"required,mobile"`
}

type SendOTPOutput struct {
	Message string
}

// SendOTP issues a new code for the number, refusing while the previous code
// is younger than the resend window.
func (s *Usecase) SendOTP(ctx context.Context, in SendOTPInput) (*SendOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "SendOTP")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	now := s.clock.Now()

	prev, err := s.store.GetChallenge(ctx, in.Mobile)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get challenge", "mobile", in.Mobile, "error", err)
		return nil, goerror.NewServer(err)
	}
	if prev != nil {
		if wait := s.cfg.ResendWindow - now.Sub(prev.IssuedAt); wait > 0 {
			slog.WarnContext(ctx, "code requested before resend window", "mobile", in.Mobile, "wait", wait.String())
			return nil, goerror.NewBusiness(
				fmt.Sprintf("Please wait %d seconds before requesting a new code", int(wait.Round(time.Second)/time.Second)),
				goerror.CodeTooManyRequest,
			)
		}
	}

	secret, err := s.totp.NewSecret(in.Mobile)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp secret", "error", err)
		return nil, goerror.NewServer(err)
	}

	code, err := s.totp.Code(secret, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.store.SaveChallenge(ctx, entity.Challenge{
		Mobile:   in.Mobile,
		Secret:   secret,
		IssuedAt: now,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo save challenge", "mobile", in.Mobile, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.sender.SendCode(ctx, in.Mobile, code); err != nil {
		slog.ErrorContext(ctx, "failed to send code", "mobile", in.Mobile, "error", err)
		return nil, goerror.NewBusiness("The code could not be sent, please try again", goerror.CodeUnavailable)
	}

	return &SendOTPOutput{Message: "The verification code was sent."}, nil
}
