package entity

// Status is the single message shown to the user. It is replaced, never
// accumulated.
type Status struct {
	Text string
	Kind StatusKind
}

// IsZero reports whether no message is shown.
func (s Status) IsZero() bool {
	return s.Kind == StatusNone && s.Text == ""
}

// Registration holds the profile fields a new account submits.
type Registration struct {
	FirstName        string `json:"first_name" validate:"required"`
	LastName         string `json:"last_name" validate:"required"`
	IsOrganization   bool   `json:"is_corporate"`
	OrganizationName string `json:"company_name"`
}

// Cooldown is the wait enforced between two code dispatches.
type Cooldown struct {
	// Remaining is the number of seconds left before a resend is allowed.
	Remaining int
	// Window is the full wait armed after each dispatch.
	Window int
}

// CanResend reports whether the countdown has run out.
func (c Cooldown) CanResend() bool {
	return c.Remaining <= 0
}

// Arm restarts the countdown at its full window.
func (c Cooldown) Arm() Cooldown {
	c.Remaining = c.Window
	return c
}

// Tick counts down one second, stopping at zero.
func (c Cooldown) Tick() Cooldown {
	if c.Remaining > 0 {
		c.Remaining--
	}
	return c
}

// Open allows an immediate resend.
func (c Cooldown) Open() Cooldown {
	c.Remaining = 0
	return c
}

// Session is the in-progress login attempt. Zero value is the first screen.
type Session struct {
	Step         Step
	PhoneNumber  string
	Code         string
	IsNewAccount bool
	Registration *Registration
	Cooldown     Cooldown
	Status       Status
	// Loading is set while a submit is in flight and blocks further submits.
	Loading bool
	// RedirectURL is the navigation target once Step is StepRedirect.
	RedirectURL string
}

// Ticking reports whether the one-second countdown should be running.
func (s Session) Ticking() bool {
	return s.Step == StepCodeEntry && s.Cooldown.Remaining > 0
}
