package inbound

import (
	"context"
	"strings"

	"github.com/tabesh/tabesh-auth/internal/pkg/router"
	"github.com/tabesh/tabesh-auth/internal/verifier/usecase"
)

// DefaultPrefix is the plugin's REST namespace.
const DefaultPrefix = "/wp-json/tabesh/v1"

type uc interface {
	CheckUser(ctx context.Context, in usecase.CheckUserInput) (*usecase.CheckUserOutput, error)
	SendOTP(ctx context.Context, in usecase.SendOTPInput) (*usecase.SendOTPOutput, error)
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) (*usecase.VerifyOTPOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, prefix string, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}

	r.POST(prefix+"/auth/check-user", end.CheckUser)
	r.POST(prefix+"/auth/send-otp", end.SendOTP)
	r.POST(prefix+"/auth/verify-otp", end.VerifyOTP)
}
