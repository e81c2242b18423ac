package otp

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// OTP defines the contract for issuing and checking login codes.
type OTP interface {
	// NewSecret creates a fresh secret bound to an account (the phone number).
	NewSecret(account string) (string, error)
	// Code returns the code for secret at the given time.
	Code(secret string, at time.Time) (string, error)
	// Validate reports whether code is valid for secret at the given time.
	Validate(code, secret string, at time.Time) bool
	// Digits returns the code length.
	Digits() int
}

// TOTP implements OTP with time-based codes of arbitrary length.
type TOTP struct {
	issuer string
	period uint
	skew   uint
	digits otp.Digits
}

// NewTOTP builds a TOTP issuer. A non-positive digits falls back to 5, a zero
// period to 120 seconds. Skew is the number of neighbouring periods accepted.
func NewTOTP(issuer string, period, skew uint, digits int) *TOTP {
	if digits <= 0 {
		digits = 5
	}
	if period == 0 {
		period = 120
	}

	return &TOTP{
		issuer: issuer,
		period: period,
		skew:   skew,
		digits: otp.Digits(digits),
	}
}

// NewSecret creates a base32 secret for account.
func (o *TOTP) NewSecret(account string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      o.issuer,
		AccountName: account,
		Period:      o.period,
		SecretSize:  20,
		Digits:      o.digits,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", err
	}

	return key.Secret(), nil
}

// Code returns the code for secret at the given time.
func (o *TOTP) Code(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, at, o.opts())
}

// Validate reports whether code matches secret at the given time.
func (o *TOTP) Validate(code, secret string, at time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, at, o.opts())
	return ok && err == nil
}

// Digits returns the configured code length.
func (o *TOTP) Digits() int {
	return o.digits.Length()
}

func (o *TOTP) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    o.period,
		Skew:      o.skew,
		Digits:    o.digits,
		Algorithm: otp.AlgorithmSHA1,
	}
}
