package entity

// Reply is the outcome of a code dispatch.
type Reply struct {
	Success bool
	Message string
}

// VerifyRequest is sent when checking a code, optionally completing the
// profile of a new account in the same call.
type VerifyRequest struct {
	Mobile       string
	Code         string
	Registration *Registration
}

// VerifyReply is the outcome of a verification.
type VerifyReply struct {
	Success           bool
	Message           string
	NeedsRegistration bool
	// RedirectURL overrides the configured redirect when the server sets it.
	RedirectURL string
}
