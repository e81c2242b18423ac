package entity

import "time"

// Account is a customer known to the shop.
type Account struct {
	Mobile      string
	FirstName   string
	LastName    string
	IsCorporate bool
	CompanyName string
	CreatedAt   time.Time
}

// Challenge is the code currently issued to a phone number.
type Challenge struct {
	Mobile   string
	Secret   string
	IssuedAt time.Time
	// Attempts counts rejected codes.
	Attempts int
	// Verified is set once the code was accepted for an account that still
	// has to register; the same code then completes the registration.
	Verified bool
	// Code and VerifiedAt record the accepted code, which stays good for
	// registration after its TOTP period ends.
	Code       string
	VerifiedAt time.Time
}
