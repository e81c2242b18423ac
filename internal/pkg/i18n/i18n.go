// Package i18n holds the localized status and prompt texts of the login flow.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a localized text.
type Key string

const (
	KeyInvalidMobile        Key = "invalid_mobile"
	KeyIncompleteCode       Key = "incomplete_code"
	KeyMissingName          Key = "missing_name"
	KeyNetworkError         Key = "network_error"
	KeyGenericError         Key = "generic_error"
	KeyCodeSent             Key = "code_sent"
	KeyRegistrationRequired Key = "registration_required"
	KeyLoginSuccess         Key = "login_success"
	KeyRegistrationSuccess  Key = "registration_success"
	KeyResendIn             Key = "resend_in"
	KeyResendReady          Key = "resend_ready"
	KeyPromptPhone          Key = "prompt_phone"
	KeyPromptCode           Key = "prompt_code"
	KeyPromptFirstName      Key = "prompt_first_name"
	KeyPromptLastName       Key = "prompt_last_name"
	KeyPromptOrganization   Key = "prompt_organization"
	KeyRedirecting          Key = "redirecting"
)

var texts = map[Key]map[language.Tag]string{
	KeyInvalidMobile: {
		language.Persian: "شماره موبایل وارد شده معتبر نیست.",
		language.English: "The mobile number is not valid.",
	},
	KeyIncompleteCode: {
		language.Persian: "کد تأیید باید %d رقم باشد.",
		language.English: "The verification code must have %d digits.",
	},
	KeyMissingName: {
		language.Persian: "لطفاً نام و نام خانوادگی را وارد کنید.",
		language.English: "Please enter your first and last name.",
	},
	KeyNetworkError: {
		language.Persian: "خطا در ارتباط با سرور. لطفاً دوباره تلاش کنید.",
		language.English: "Network error, please try again.",
	},
	KeyGenericError: {
		language.Persian: "خطایی رخ داد. لطفاً دوباره تلاش کنید.",
		language.English: "Something went wrong, please try again.",
	},
	KeyCodeSent: {
		language.Persian: "کد تأیید ارسال شد.",
		language.English: "The verification code was sent.",
	},
	KeyRegistrationRequired: {
		language.Persian: "لطفاً اطلاعات حساب کاربری خود را تکمیل کنید.",
		language.English: "Please complete your account details.",
	},
	KeyLoginSuccess: {
		language.Persian: "ورود با موفقیت انجام شد. در حال انتقال...",
		language.English: "Signed in. Redirecting...",
	},
	KeyRegistrationSuccess: {
		language.Persian: "ثبت‌نام با موفقیت انجام شد. در حال انتقال...",
		language.English: "Registration complete. Redirecting...",
	},
	KeyResendIn: {
		language.Persian: "ارسال مجدد کد تا %d ثانیه دیگر",
		language.English: "Resend available in %d seconds",
	},
	KeyResendReady: {
		language.Persian: "برای ارسال مجدد کد /resend را وارد کنید",
		language.English: "Type /resend to get a new code",
	},
	KeyPromptPhone: {
		language.Persian: "شماره موبایل: ",
		language.English: "Mobile number: ",
	},
	KeyPromptCode: {
		language.Persian: "کد تأیید (/change برای تغییر شماره): ",
		language.English: "Verification code (/change to edit the number): ",
	},
	KeyPromptFirstName: {
		language.Persian: "نام: ",
		language.English: "First name: ",
	},
	KeyPromptLastName: {
		language.Persian: "نام خانوادگی: ",
		language.English: "Last name: ",
	},
	KeyPromptOrganization: {
		language.Persian: "نام سازمان (خالی برای شخص حقیقی): ",
		language.English: "Organization name (empty for a person): ",
	},
	KeyRedirecting: {
		language.Persian: "در حال انتقال به %s",
		language.English: "Redirecting to %s",
	},
}

var cat = func() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.Persian))
	for key, byLang := range texts {
		for tag, text := range byLang {
			//nolint:errcheck // SetString only fails on malformed messages
			b.SetString(tag, string(key), text)
		}
	}
	return b
}()

// Translator renders texts for one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Translator for locale ("fa", "en", ...). Unknown locales fall
// back to Persian.
func New(locale string) *Translator {
	tag := language.Persian
	if t, err := language.Parse(strings.TrimSpace(locale)); err == nil {
		matcher := language.NewMatcher([]language.Tag{language.Persian, language.English})
		tag, _, _ = matcher.Match(t)
	}

	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(cat)),
	}
}

// Language returns the tag texts are rendered in.
func (t *Translator) Language() language.Tag {
	return t.tag
}

// T renders key with args.
func (t *Translator) T(key Key, args ...any) string {
	return t.printer.Sprintf(string(key), args...)
}

// RTL reports whether texts are written right to left.
func (t *Translator) RTL() bool {
	base, _ := t.tag.Base()
	fa, _ := language.Persian.Base()
	return base == fa
}
