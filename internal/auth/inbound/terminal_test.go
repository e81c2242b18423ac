package inbound

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tabesh/tabesh-auth/internal/auth/entity"
	"github.com/tabesh/tabesh-auth/internal/pkg/i18n"
	"github.com/tabesh/tabesh-auth/internal/pkg/otpinput"
)

// fakeFlow moves through the steps the way the controller would on success.
type fakeFlow struct {
	mu sync.Mutex
	s  entity.Session

	term     *Terminal
	newUser  bool
	badCodes map[string]bool

	phones  []string
	codes   []string
	regs    []entity.Registration
	resends int
	changes int
	backs   int
}

func (f *fakeFlow) SubmitPhone(_ context.Context, raw string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phones = append(f.phones, raw)
	f.s.Step = entity.StepCodeEntry
	f.s.PhoneNumber = raw
	return nil
}

func (f *fakeFlow) SubmitCode(_ context.Context, code string) error {
	f.mu.Lock()
	f.codes = append(f.codes, code)
	if len(code) != 5 || f.badCodes[code] {
		f.s.Code = ""
		f.mu.Unlock()
		return errors.New("rejected")
	}
	f.s.Code = code
	if f.newUser {
		f.s.Step = entity.StepRegistration
		f.mu.Unlock()
		return nil
	}
	f.s.Step = entity.StepRedirect
	f.mu.Unlock()

	f.term.Navigate("https://shop.example/home")
	return nil
}

func (f *fakeFlow) ResendCode(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resends++
	return nil
}

func (f *fakeFlow) SubmitRegistration(_ context.Context, reg entity.Registration) error {
	f.mu.Lock()
	f.regs = append(f.regs, reg)
	f.s.Step = entity.StepRedirect
	f.mu.Unlock()

	f.term.Navigate("https://shop.example/welcome")
	return nil
}

func (f *fakeFlow) ChangePhone(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes++
	f.s = entity.Session{Step: entity.StepPhoneEntry}
	return nil
}

func (f *fakeFlow) Back(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.backs++
	f.s.Step = entity.StepCodeEntry
	f.s.Code = ""
	return nil
}

func (f *fakeFlow) Snapshot() entity.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.s
}

func newTerminal(t *testing.T, input string, flow *fakeFlow) (*Terminal, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	term := NewTerminal(TerminalConfig{
		OTPLength:         5,
		AllowOrganization: true,
		Direction:         otpinput.DirectionLTR,
	}, i18n.New("en"), strings.NewReader(input), out)
	flow.term = term
	term.Attach(flow)
	return term, out
}

func run(t *testing.T, term *Terminal) (string, error) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return term.Run(ctx)
}

func TestTerminal_PasteCodeRedirects(t *testing.T) {
	flow := &fakeFlow{}
	term, out := newTerminal(t, "09123456789\n12345\n", flow)

	url, err := run(t, term)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if url != "https://shop.example/home" {
		t.Fatalf("Run() url = %q", url)
	}
	if len(flow.phones) != 1 || flow.phones[0] != "09123456789" {
		t.Fatalf("phones = %v", flow.phones)
	}
	if len(flow.codes) != 1 || flow.codes[0] != "12345" {
		t.Fatalf("codes = %v", flow.codes)
	}
	if !strings.Contains(out.String(), "Redirecting to https://shop.example/home") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestTerminal_TypedDigitsFillWidget(t *testing.T) {
	flow := &fakeFlow{}
	term, _ := newTerminal(t, "09123456789\n1\n2\n9\n/del\n3\n۴\n5\n", flow)

	if _, err := run(t, term); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(flow.codes) != 1 || flow.codes[0] != "12345" {
		t.Fatalf("codes = %v", flow.codes)
	}
}

func TestTerminal_RejectedCodeClearsWidget(t *testing.T) {
	flow := &fakeFlow{badCodes: map[string]bool{"11111": true}}
	term, _ := newTerminal(t, "09123456789\n11111\n123\n22222\n", flow)

	if _, err := run(t, term); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []string{"11111", "123", "22222"}
	if strings.Join(flow.codes, ",") != strings.Join(want, ",") {
		t.Fatalf("codes = %v, want %v", flow.codes, want)
	}
	if v := term.widget.Value(); v != "22222" {
		t.Fatalf("widget value = %q", v)
	}
}

func TestTerminal_Commands(t *testing.T) {
	flow := &fakeFlow{}
	term, _ := newTerminal(t, "09123456789\n/resend\n/change\n09120000000\n54321\n", flow)

	if _, err := run(t, term); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if flow.resends != 1 || flow.changes != 1 {
		t.Fatalf("resends = %d, changes = %d", flow.resends, flow.changes)
	}
	if len(flow.phones) != 2 || flow.phones[1] != "09120000000" {
		t.Fatalf("phones = %v", flow.phones)
	}
}

func TestTerminal_Registration(t *testing.T) {
	flow := &fakeFlow{newUser: true}
	term, out := newTerminal(t, "09123456789\n12345\nSara\nKarimi\nKarimi Print\n", flow)

	url, err := run(t, term)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if url != "https://shop.example/welcome" {
		t.Fatalf("Run() url = %q", url)
	}
	want := entity.Registration{
		FirstName:        "Sara",
		LastName:         "Karimi",
		IsOrganization:   true,
		OrganizationName: "Karimi Print",
	}
	if len(flow.regs) != 1 || flow.regs[0] != want {
		t.Fatalf("regs = %+v, want %+v", flow.regs, want)
	}
	for _, prompt := range []string{"First name: ", "Last name: ", "Organization name"} {
		if !strings.Contains(out.String(), prompt) {
			t.Fatalf("output misses %q: %q", prompt, out.String())
		}
	}
}

func TestTerminal_BackFromRegistration(t *testing.T) {
	flow := &fakeFlow{newUser: true}
	term, _ := newTerminal(t, "09123456789\n12345\nSara\n/back\n", flow)

	_, err := run(t, term)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("Run() error = %v, want ErrAborted", err)
	}
	if flow.backs != 1 || len(flow.regs) != 0 {
		t.Fatalf("backs = %d, regs = %d", flow.backs, len(flow.regs))
	}
	if flow.Snapshot().Step != entity.StepCodeEntry {
		t.Fatalf("step = %v", flow.Snapshot().Step)
	}
	if v := term.widget.Value(); v != "" {
		t.Fatalf("widget value = %q, want empty", v)
	}
}

func TestTerminal_InputEndsBeforeRedirect(t *testing.T) {
	flow := &fakeFlow{}
	term, _ := newTerminal(t, "09123456789\n", flow)

	if _, err := run(t, term); !errors.Is(err, ErrAborted) {
		t.Fatalf("Run() error = %v, want ErrAborted", err)
	}
}

func TestTerminal_RunWithoutFlow(t *testing.T) {
	term := NewTerminal(TerminalConfig{OTPLength: 5}, i18n.New("en"), strings.NewReader(""), &bytes.Buffer{})
	if _, err := term.Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil")
	}
}

func TestTerminal_Render(t *testing.T) {
	out := &bytes.Buffer{}
	term := NewTerminal(TerminalConfig{OTPLength: 5}, i18n.New("en"), strings.NewReader(""), out)

	s := entity.Session{
		Step:     entity.StepCodeEntry,
		Cooldown: entity.Cooldown{Remaining: 1, Window: 120},
		Status:   entity.Status{Text: "code sent", Kind: entity.StatusSuccess},
	}
	term.Render(s)
	term.Render(s)
	s.Cooldown.Remaining = 0
	term.Render(s)

	got := out.String()
	if strings.Count(got, "code sent") != 1 {
		t.Fatalf("status printed %d times: %q", strings.Count(got, "code sent"), got)
	}
	if !strings.Contains(got, "Type /resend to get a new code") {
		t.Fatalf("output = %q", got)
	}
}
