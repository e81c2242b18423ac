package inbound

type CheckUserRequest struct {
	Mobile string `json:"mobile"`
}

type CheckUserResponse struct {
	Exists bool `json:"exists"`
}

func (CheckUserResponse) Message() string {
	return "User lookup completed."
}

type SendOTPRequest struct {
	Mobile string `json:"mobile"`
}

type SendOTPResponse struct {
	msg string
}

func (r SendOTPResponse) Message() string {
	return r.msg
}

type VerifyOTPRequest struct {
	Mobile      string `json:"mobile"`
	Code        string `json:"code"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsCorporate bool   `json:"is_corporate"`
	CompanyName string `json:"company_name"`
}

type VerifyOTPResponse struct {
	NeedsRegistration bool   `json:"needs_registration"`
	RedirectURL       string `json:"redirect_url,omitempty"`
	msg               string
}

func (r VerifyOTPResponse) Message() string {
	return r.msg
}
