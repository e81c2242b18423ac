// Package inbound drives a login session from a line-oriented terminal.
package inbound

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/tabesh/tabesh-auth/internal/auth/entity"
	"github.com/tabesh/tabesh-auth/internal/pkg/goerror"
	"github.com/tabesh/tabesh-auth/internal/pkg/i18n"
	"github.com/tabesh/tabesh-auth/internal/pkg/otpinput"
	"github.com/tabesh/tabesh-auth/internal/pkg/phone"
)

// Terminal commands.
const (
	CmdResend = "/resend"
	CmdChange = "/change"
	CmdBack   = "/back"
	CmdDelete = "/del"
)

// ErrAborted is returned by Run when input ends before the redirect.
var ErrAborted = errors.New("auth: login aborted")

// Flow is the login controller as seen by the terminal.
type Flow interface {
	SubmitPhone(ctx context.Context, raw string) error
	SubmitCode(ctx context.Context, code string) error
	ResendCode(ctx context.Context) error
	SubmitRegistration(ctx context.Context, reg entity.Registration) error
	ChangePhone(ctx context.Context) error
	Back(ctx context.Context) error
	Snapshot() entity.Session
}

// TerminalConfig sets what the terminal asks for.
type TerminalConfig struct {
	OTPLength         int
	AllowOrganization bool
	Direction         otpinput.Direction
}

// Terminal renders the session as text and turns input lines into flow
// actions. Codes go through a digit-entry widget: a line of several digits
// is pasted, a single digit is typed into the focused slot.
type Terminal struct {
	cfg TerminalConfig
	tr  *i18n.Translator
	in  io.Reader

	outMu sync.Mutex
	out   io.Writer

	flow   Flow
	widget *otpinput.Input
	ctx    context.Context

	// last is only touched from Render, which the controller serializes.
	last entity.Session

	lines     chan string
	navigated chan string

	// submitted and codeResult carry the outcome of a widget completion.
	submitted  bool
	codeResult error
}

// NewTerminal returns a Terminal reading in and writing out. Call Attach
// before Run.
func NewTerminal(cfg TerminalConfig, tr *i18n.Translator, in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{
		cfg:       cfg,
		tr:        tr,
		in:        in,
		out:       out,
		ctx:       context.Background(),
		navigated: make(chan string, 1),
	}
	t.widget = otpinput.New(otpinput.Options{
		Length:     cfg.OTPLength,
		Direction:  cfg.Direction,
		OnComplete: t.codeComplete,
	})
	return t
}

// Attach binds the flow the terminal drives.
func (t *Terminal) Attach(flow Flow) {
	t.flow = flow
}

// Navigate prints the target and ends Run. It implements usecase.Navigator.
func (t *Terminal) Navigate(url string) {
	t.printf("%s\n", t.tr.T(i18n.KeyRedirecting, url))
	select {
	case t.navigated <- url:
	default:
	}
}

// Render prints what changed between the previous session and s. It is the
// controller's listener.
func (t *Terminal) Render(s entity.Session) {
	prev := t.last
	t.last = s

	if s.Status != prev.Status && !s.Status.IsZero() {
		t.printf("[%s] %s\n", s.Status.Kind, s.Status.Text)
	}
	if s.Step == entity.StepCodeEntry && prev.Cooldown.Remaining > 0 && s.Cooldown.CanResend() {
		t.printf("%s\n", t.tr.T(i18n.KeyResendReady))
	}
}

// Run drives the session until the redirect happens, input ends or ctx is
// done. It returns the redirect URL.
func (t *Terminal) Run(ctx context.Context) (string, error) {
	if t.flow == nil {
		return "", goerror.NewServer(errors.New("inbound: terminal has no flow attached"))
	}
	t.ctx = ctx

	t.lines = make(chan string)
	// Scan cannot be interrupted, so the reader is left to die with the process.
	go func(lines chan<- string) {
		defer close(lines)
		sc := bufio.NewScanner(t.in)
		for sc.Scan() {
			select {
			case lines <- strings.TrimSpace(sc.Text()):
			case <-ctx.Done():
				return
			}
		}
	}(t.lines)

	for {
		if t.flow.Snapshot().Step != entity.StepRedirect {
			t.prompt()
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case url := <-t.navigated:
			return url, nil
		case line, ok := <-t.lines:
			if !ok {
				return t.drain(ctx)
			}
			err := t.handle(ctx, line)
			if errors.Is(err, goerror.ErrClosed) {
				return "", err
			}
			if errors.Is(err, ErrAborted) {
				return t.drain(ctx)
			}
		}
	}
}

// drain waits for a redirect already scheduled when input ends.
func (t *Terminal) drain(ctx context.Context) (string, error) {
	if t.flow.Snapshot().Step != entity.StepRedirect {
		return "", ErrAborted
	}
	select {
	case url := <-t.navigated:
		return url, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (t *Terminal) prompt() {
	s := t.flow.Snapshot()
	switch s.Step {
	case entity.StepPhoneEntry:
		t.printf("%s", t.tr.T(i18n.KeyPromptPhone))
	case entity.StepCodeEntry:
		if !s.Cooldown.CanResend() {
			t.printf("(%s) ", t.tr.T(i18n.KeyResendIn, s.Cooldown.Remaining))
		}
		if v := t.widget.Value(); v != "" {
			t.printf("[%s] ", strings.Join(t.slots(), " "))
		}
		t.printf("%s", t.tr.T(i18n.KeyPromptCode))
	case entity.StepRegistration:
		t.printf("%s", t.tr.T(i18n.KeyPromptFirstName))
	}
}

// handle applies one input line. Errors the flow already shows as status are
// swallowed; only ErrClosed and ErrAborted are returned.
func (t *Terminal) handle(ctx context.Context, line string) error {
	var err error

	switch t.flow.Snapshot().Step {
	case entity.StepPhoneEntry:
		err = t.flow.SubmitPhone(ctx, line)
		t.widget.SetValue("")
	case entity.StepCodeEntry:
		err = t.handleCode(ctx, line)
	case entity.StepRegistration:
		err = t.handleRegistration(ctx, line)
	}

	if errors.Is(err, goerror.ErrClosed) || errors.Is(err, ErrAborted) {
		return err
	}
	return nil
}

func (t *Terminal) handleCode(ctx context.Context, line string) error {
	switch line {
	case CmdResend:
		return t.flow.ResendCode(ctx)
	case CmdChange:
		t.widget.SetValue("")
		return t.flow.ChangePhone(ctx)
	case CmdDelete:
		t.widget.Backspace(t.widget.Focused())
		return nil
	}

	digits := phone.ToASCIIDigits(line)
	if len(digits) == 1 {
		t.widget.Type(t.widget.Focused(), digits)
		return t.settleCode()
	}

	t.widget.SetValue("")
	t.widget.Paste(0, digits)
	if t.submitted {
		return t.settleCode()
	}
	// Let the flow report the incomplete code.
	err := t.flow.SubmitCode(ctx, t.widget.Value())
	t.widget.SetValue("")
	return err
}

func (t *Terminal) handleRegistration(ctx context.Context, first string) error {
	if first == CmdBack {
		return t.back(ctx)
	}

	reg := entity.Registration{FirstName: first}

	t.printf("%s", t.tr.T(i18n.KeyPromptLastName))
	last, ok := t.readLine(ctx)
	if !ok {
		return ErrAborted
	}
	if last == CmdBack {
		return t.back(ctx)
	}
	reg.LastName = last

	if t.cfg.AllowOrganization {
		t.printf("%s", t.tr.T(i18n.KeyPromptOrganization))
		org, ok := t.readLine(ctx)
		if !ok {
			return ErrAborted
		}
		if org == CmdBack {
			return t.back(ctx)
		}
		reg.IsOrganization = org != ""
		reg.OrganizationName = org
	}

	return t.flow.SubmitRegistration(ctx, reg)
}

func (t *Terminal) back(ctx context.Context) error {
	t.widget.SetValue("")
	return t.flow.Back(ctx)
}

// codeComplete submits the code once the widget is full.
func (t *Terminal) codeComplete(code string) {
	t.submitted = true
	t.codeResult = t.flow.SubmitCode(t.ctx, code)
}

// settleCode reports the outcome of a completion, if any, and mirrors the
// flow's code into the widget so a rejected code is cleared there too.
func (t *Terminal) settleCode() error {
	if !t.submitted {
		return nil
	}
	err := t.codeResult
	t.submitted, t.codeResult = false, nil
	t.widget.SetValue(t.flow.Snapshot().Code)
	return err
}

func (t *Terminal) readLine(ctx context.Context) (string, bool) {
	select {
	case line, ok := <-t.lines:
		return line, ok
	case <-ctx.Done():
		return "", false
	}
}

func (t *Terminal) slots() []string {
	slots := t.widget.Slots()
	for i, s := range slots {
		if s == "" {
			slots[i] = "_"
		}
	}
	return slots
}

func (t *Terminal) printf(format string, args ...any) {
	t.outMu.Lock()
	defer t.outMu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}
