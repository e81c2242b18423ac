package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tabesh/tabesh-auth/internal/pkg/goerror"
)

type CheckUserInput struct {
	Mobile string `json:"mobile" validate:"required,mobile"`
}

type CheckUserOutput struct {
	Exists bool
}

func (s *Usecase) CheckUser(ctx context.Context, in CheckUserInput) (*CheckUserOutput, error) {
	ctx, span := s.startSpan(ctx, "CheckUser")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	_, err := s.store.GetAccount(ctx, in.Mobile)
	if errors.Is(err, goerror.ErrNotFound) {
		return &CheckUserOutput{Exists: false}, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account", "mobile", in.Mobile, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &CheckUserOutput{Exists: true}, nil
}
