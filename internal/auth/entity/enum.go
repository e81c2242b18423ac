package entity

// Step is the screen the login flow is on.
type Step int

const (
	// StepPhoneEntry asks for the mobile number.
	StepPhoneEntry Step = iota
	// StepCodeEntry asks for the code that was sent to the phone.
	StepCodeEntry
	// StepRegistration asks a new account for profile fields.
	StepRegistration
	// StepRedirect is terminal; navigation to the redirect URL is scheduled.
	StepRedirect
)

func (s Step) String() string {
	switch s {
	case StepPhoneEntry:
		return "phone_entry"
	case StepCodeEntry:
		return "code_entry"
	case StepRegistration:
		return "registration"
	case StepRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// StatusKind colours the status line.
type StatusKind int

const (
	StatusNone StatusKind = iota
	StatusSuccess
	StatusError
	StatusInfo
)

func (k StatusKind) String() string {
	switch k {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	case StatusInfo:
		return "info"
	default:
		return "none"
	}
}
