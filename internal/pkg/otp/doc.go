// Package otp issues and checks the short numeric login codes handed out by
// the verification service.
//
// Codes are TOTP values (RFC 6238) derived from a per-phone secret, so a code
// stays valid for one period and the service never stores the code itself.
package otp
