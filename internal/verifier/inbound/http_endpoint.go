package inbound

import (
	"github.com/tabesh/tabesh-auth/internal/pkg/router"
	"github.com/tabesh/tabesh-auth/internal/verifier/usecase"
)

// HTTPEndpoint exposes the three calls the login form makes.
type HTTPEndpoint struct {
	uc uc
}

// CheckUser reports whether the mobile number has an account.
func (h *HTTPEndpoint) CheckUser(r *router.Request) (any, error) {
	var req CheckUserRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.CheckUser(r.Context(), usecase.CheckUserInput{Mobile: req.Mobile})
	if err != nil {
		return nil, err
	}

	return CheckUserResponse{Exists: resp.Exists}, nil
}

// SendOTP issues a code to the mobile number.
func (h *HTTPEndpoint) SendOTP(r *router.Request) (any, error) {
	var req SendOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.SendOTP(r.Context(), usecase.SendOTPInput{Mobile: req.Mobile})
	if err != nil {
		return nil, err
	}

	return SendOTPResponse{msg: resp.Message}, nil
}

// VerifyOTP checks a code and, when profile fields are present, completes
// the registration.
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{
		Mobile:      req.Mobile,
		Code:        req.Code,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		IsCorporate: req.IsCorporate,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		return nil, err
	}

	return VerifyOTPResponse{
		NeedsRegistration: resp.NeedsRegistration,
		RedirectURL:       resp.RedirectURL,
		msg:               resp.Message,
	}, nil
}
