package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/tabesh/tabesh-auth/internal/pkg/goerror"
	"github.com/tabesh/tabesh-auth/internal/verifier/entity"
)

type VerifyOTPInput struct {
	Mobile      string `json:"mobile" validate:"required,mobile"`
	Code        string `json:"code" validate:"required,otp"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsCorporate bool   `json:"is_corporate"`
	CompanyName string `json:"company_name"`
}

type registrationInput struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
}

type VerifyOTPOutput struct {
	NeedsRegistration bool
	RedirectURL       string
	Message           string
}

// VerifyOTP checks the code. A registered account is logged in. An unknown
// number is told to register; the same code is then accepted once more,
// together with the profile fields, to create the account.
func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*VerifyOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.CompanyName = strings.TrimSpace(in.CompanyName)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ch, err := s.store.GetChallenge(ctx, in.Mobile)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("No code was requested for this number", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get challenge", "mobile", in.Mobile, "error", err)
		return nil, goerror.NewServer(err)
	}

	registering := in.FirstName != "" || in.LastName != ""
	if registering && ch.Verified {
		if err := s.checkVerified(ctx, ch, in.Code); err != nil {
			return nil, err
		}
	} else if err := s.checkCode(ctx, ch, in.Code); err != nil {
		return nil, err
	}

	acc, err := s.store.GetAccount(ctx, in.Mobile)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get account", "mobile", in.Mobile, "error", err)
		return nil, goerror.NewServer(err)
	}

	if acc != nil {
		s.consume(ctx, in.Mobile)
		return &VerifyOTPOutput{RedirectURL: s.cfg.RedirectURL, Message: "Signed in successfully."}, nil
	}

	if !registering {
		ch.Verified = true
		ch.Code = in.Code
		ch.VerifiedAt = s.clock.Now()
		if err := s.store.SaveChallenge(ctx, *ch); err != nil {
			slog.ErrorContext(ctx, "failed to repo save challenge", "mobile", in.Mobile, "error", err)
			return nil, goerror.NewServer(err)
		}
		return &VerifyOTPOutput{NeedsRegistration: true, Message: "Please complete your account details."}, nil
	}

	if !ch.Verified {
		return nil, goerror.NewBusiness("Verify the code before registering", goerror.CodeInvalidInput)
	}
	if err := s.validator.Validate(registrationInput{FirstName: in.FirstName, LastName: in.LastName}); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if !in.IsCorporate {
		in.CompanyName = ""
	}

	if err := s.store.CreateAccount(ctx, entity.Account{
		Mobile:      in.Mobile,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		IsCorporate: in.IsCorporate,
		CompanyName: in.CompanyName,
		CreatedAt:   s.clock.Now(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create account", "mobile", in.Mobile, "error", err)
		return nil, goerror.NewServer(err)
	}
	s.consume(ctx, in.Mobile)

	return &VerifyOTPOutput{RedirectURL: s.cfg.RedirectURL, Message: "Registration complete."}, nil
}

func (s *Usecase) checkCode(ctx context.Context, ch *entity.Challenge, code string) error {
	if s.totp.Validate(code, ch.Secret, s.clock.Now()) {
		return nil
	}
	return s.reject(ctx, ch)
}

// checkVerified accepts the code already verified for this challenge while
// the registration window is open.
func (s *Usecase) checkVerified(ctx context.Context, ch *entity.Challenge, code string) error {
	if s.clock.Now().Sub(ch.VerifiedAt) > s.cfg.RegistrationWindow {
		slog.WarnContext(ctx, "registration window closed", "mobile", ch.Mobile)
		s.consume(ctx, ch.Mobile)
		return goerror.NewBusiness("The verification code has expired, request a new one", goerror.CodeInvalidInput)
	}
	if subtle.ConstantTimeCompare([]byte(code), []byte(ch.Code)) == 1 {
		return nil
	}
	return s.reject(ctx, ch)
}

// reject counts a wrong code and drops the challenge at the attempt limit.
func (s *Usecase) reject(ctx context.Context, ch *entity.Challenge) error {
	ch.Attempts++
	if ch.Attempts >= s.cfg.MaxAttempts {
		slog.WarnContext(ctx, "too many wrong codes, challenge dropped", "mobile", ch.Mobile, "attempts", ch.Attempts)
		s.consume(ctx, ch.Mobile)
		return goerror.NewBusiness("Too many wrong codes, request a new one", goerror.CodeTooManyRequest)
	}

	if err := s.store.SaveChallenge(ctx, *ch); err != nil {
		slog.ErrorContext(ctx, "failed to repo save challenge", "mobile", ch.Mobile, "error", err)
		return goerror.NewServer(err)
	}
	return goerror.NewBusiness("The verification code is invalid or expired", goerror.CodeInvalidInput)
}

// consume drops the challenge; a failure only delays its expiry.
func (s *Usecase) consume(ctx context.Context, mobile string) {
	if err := s.store.DeleteChallenge(ctx, mobile); err != nil {
		slog.WarnContext(ctx, "failed to repo delete challenge", "mobile", mobile, "error", err)
	}
}
