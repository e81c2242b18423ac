package usecase

import "github.com/tabesh/tabesh-auth/internal/auth/entity"

// HandleEvent returns the session that follows s after ev. It has no side
// effects; events that make no sense on the current step leave s unchanged.
func HandleEvent(s entity.Session, ev entity.Event) entity.Session {
	switch ev := ev.(type) {
	case entity.PhoneSubmitted:
		if s.Step != entity.StepPhoneEntry {
			return s
		}
		s.PhoneNumber = ev.Phone
		s.Code = ""
		return started(s)

	case entity.CodeSubmitted:
		if s.Step != entity.StepCodeEntry {
			return s
		}
		s.Code = ev.Code
		return started(s)

	case entity.RegistrationSubmitted:
		if s.Step != entity.StepRegistration {
			return s
		}
		reg := ev.Registration
		s.Registration = &reg
		return started(s)

	case entity.CodeDispatched:
		if s.Step != entity.StepPhoneEntry {
			return s
		}
		s.Step = entity.StepCodeEntry
		s.IsNewAccount = ev.IsNewAccount
		s.Cooldown = s.Cooldown.Arm()
		return settled(s, entity.StatusSuccess, ev.Message)

	case entity.RequestFailed:
		return settled(s, entity.StatusError, ev.Message)

	case entity.CodeRejected:
		if s.Step != entity.StepCodeEntry {
			return s
		}
		s.Code = ""
		return settled(s, entity.StatusError, ev.Message)

	case entity.CodeVerified:
		if s.Step != entity.StepCodeEntry {
			return s
		}
		if ev.NeedsRegistration {
			s.Step = entity.StepRegistration
			s.IsNewAccount = true
		} else {
			s.Step = entity.StepRedirect
			s.RedirectURL = ev.RedirectURL
		}
		return settled(s, entity.StatusSuccess, ev.Message)

	case entity.Registered:
		if s.Step != entity.StepRegistration {
			return s
		}
		s.Step = entity.StepRedirect
		s.RedirectURL = ev.RedirectURL
		return settled(s, entity.StatusSuccess, ev.Message)

	case entity.ResendRequested:
		if s.Step != entity.StepCodeEntry || !s.Cooldown.CanResend() {
			return s
		}
		s.Cooldown = s.Cooldown.Arm()
		s.Status = entity.Status{}
		return s

	case entity.ResendSucceeded:
		if s.Step != entity.StepCodeEntry {
			return s
		}
		s.Status = entity.Status{Text: ev.Message, Kind: entity.StatusInfo}
		return s

	case entity.ResendFailed:
		if s.Step != entity.StepCodeEntry {
			return s
		}
		s.Cooldown = s.Cooldown.Open()
		s.Status = entity.Status{Text: ev.Message, Kind: entity.StatusError}
		return s

	case entity.PhoneChangeRequested:
		if s.Step != entity.StepCodeEntry {
			return s
		}
		s.Step = entity.StepPhoneEntry
		s.Code = ""
		s.Loading = false
		s.Status = entity.Status{}
		return s

	case entity.BackRequested:
		if s.Step != entity.StepRegistration {
			return s
		}
		s.Step = entity.StepCodeEntry
		s.Code = ""
		s.Loading = false
		s.Status = entity.Status{}
		return s

	case entity.Tick:
		if !s.Ticking() {
			return s
		}
		s.Cooldown = s.Cooldown.Tick()
		return s

	case entity.Invalid:
		s.Status = entity.Status{Text: ev.Message, Kind: entity.StatusError}
		return s

	default:
		return s
	}
}

func started(s entity.Session) entity.Session {
	s.Loading = true
	s.Status = entity.Status{}
	return s
}

func settled(s entity.Session, kind entity.StatusKind, msg string) entity.Session {
	s.Loading = false
	s.Status = entity.Status{Text: msg, Kind: kind}
	return s
}
