package entity

// Event is an input to the login state machine.
type Event interface {
	event()
}

type (
	// PhoneSubmitted starts the existence check and code dispatch for Phone.
	PhoneSubmitted struct{ Phone string }
	// CodeSubmitted starts verification of Code.
	CodeSubmitted struct{ Code string }
	// RegistrationSubmitted starts the combined verify and register call.
	RegistrationSubmitted struct{ Registration Registration }
	// CodeDispatched reports that a code was sent and whether the account exists.
	CodeDispatched struct {
		IsNewAccount bool
		Message      string
	}
	// RequestFailed reports a failed submit; the step stays put.
	RequestFailed struct{ Message string }
	// CodeRejected reports a failed verification; the entered code is discarded.
	CodeRejected struct{ Message string }
	// CodeVerified reports a successful verification.
	CodeVerified struct {
		NeedsRegistration bool
		Message           string
		RedirectURL       string
	}
	// Registered reports that the profile was accepted.
	Registered struct {
		Message     string
		RedirectURL string
	}
	// ResendRequested resets the cooldown before the new code is requested.
	ResendRequested struct{}
	// ResendSucceeded reports the new code was sent.
	ResendSucceeded struct{ Message string }
	// ResendFailed reopens resend so the user is not left waiting.
	ResendFailed struct{ Message string }
	// PhoneChangeRequested returns to phone entry.
	PhoneChangeRequested struct{}
	// BackRequested returns from registration to code entry.
	BackRequested struct{}
	// Tick is one second of the resend countdown.
	Tick struct{}
	// Invalid reports input rejected locally, before any request.
	Invalid struct{ Message string }
)

func (PhoneSubmitted) event()        {}
func (CodeSubmitted) event()         {}
func (RegistrationSubmitted) event() {}
func (CodeDispatched) event()        {}
func (RequestFailed) event()         {}
func (CodeRejected) event()          {}
func (CodeVerified) event()          {}
func (Registered) event()            {}
func (ResendRequested) event()       {}
func (ResendSucceeded) event()       {}
func (ResendFailed) event()          {}
func (PhoneChangeRequested) event()  {}
func (BackRequested) event()         {}
func (Tick) event()                  {}
func (Invalid) event()               {}
