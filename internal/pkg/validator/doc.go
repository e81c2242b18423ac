// Package validator provides a small validation abstraction for request and
// input structs.
//
// Business code should depend on the Validator interface so validation can be
// shared and tested consistently. The go-playground/validator v10
// implementation adds the login specific "mobile" and "otp" rules.
package validator
