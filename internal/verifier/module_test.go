package verifier

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tabesh/tabesh-auth/internal/auth/entity"
	"github.com/tabesh/tabesh-auth/internal/auth/outbound/api"
	"github.com/tabesh/tabesh-auth/internal/pkg/clock"
	"github.com/tabesh/tabesh-auth/internal/pkg/config"
	"github.com/tabesh/tabesh-auth/internal/pkg/goerror"
	"github.com/tabesh/tabesh-auth/internal/pkg/instrument"
	"github.com/tabesh/tabesh-auth/internal/pkg/otp"
	"github.com/tabesh/tabesh-auth/internal/pkg/router"
	"github.com/tabesh/tabesh-auth/internal/pkg/uid"
	"github.com/tabesh/tabesh-auth/internal/pkg/validator"
)

const testConfig = `
auth:
  redirect_url: https://shop.example/my-account
verifier:
  accounts: "09121111111"
`

func newServer(t *testing.T) (*Module, *api.Client) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfig))
	if err != nil {
		t.Fatalf("NewViperFromBytes() error = %v", err)
	}
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	ins := instrument.NewNoop()
	r := router.NewRouter(router.Config{Name: "verifier", UUID: uid.Static("cid-1"), Instrument: ins})

	mod, err := New(Dependency{
		Router:     r,
		Config:     cfg,
		Instrument: ins,
		Clock:      clock.New(),
		Totp:       otp.NewTOTP("Tabesh", 120, 1, 5),
		Validator:  v,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return mod, api.New(api.Config{
		BaseURL:    srv.URL + "/wp-json/tabesh/v1",
		Timeout:    5 * time.Second,
		HTTPClient: srv.Client(),
	}, ins)
}

func TestModule_New_RequiresDependencies(t *testing.T) {
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}
	if _, err := New(Dependency{Validator: v}); err == nil {
		t.Fatal("New() error = nil, want validation error")
	}
}

func TestModule_ExistingAccountLogin(t *testing.T) {
	mod, client := newServer(t)
	ctx := context.Background()
	mobile := "09121111111"

	exists, err := client.CheckExistence(ctx, mobile)
	if err != nil || !exists {
		t.Fatalf("CheckExistence() = %v, %v; want true, nil", exists, err)
	}

	reply, err := client.SendCode(ctx, mobile)
	if err != nil {
		t.Fatalf("SendCode() error = %v", err)
	}
	if reply.Message != "The verification code was sent." {
		t.Fatalf("SendCode() message = %q", reply.Message)
	}

	code, _ := mod.Outbox.Last(mobile)
	got, err := client.VerifyCode(ctx, entity.VerifyRequest{Mobile: mobile, Code: code})
	if err != nil {
		t.Fatalf("VerifyCode() error = %v", err)
	}
	if got.NeedsRegistration || got.RedirectURL != "https://shop.example/my-account" {
		t.Fatalf("VerifyCode() = %+v", got)
	}
}

func TestModule_NewAccountRegistration(t *testing.T) {
	mod, client := newServer(t)
	ctx := context.Background()
	mobile := "09122222222"

	exists, err := client.CheckExistence(ctx, mobile)
	if err != nil || exists {
		t.Fatalf("CheckExistence() = %v, %v; want false, nil", exists, err)
	}
	if _, err := client.SendCode(ctx, mobile); err != nil {
		t.Fatalf("SendCode() error = %v", err)
	}
	code, _ := mod.Outbox.Last(mobile)

	got, err := client.VerifyCode(ctx, entity.VerifyRequest{Mobile: mobile, Code: code})
	if err != nil {
		t.Fatalf("VerifyCode() error = %v", err)
	}
	if !got.NeedsRegistration {
		t.Fatalf("VerifyCode() = %+v, want needs registration", got)
	}

	got, err = client.VerifyCode(ctx, entity.VerifyRequest{
		Mobile: mobile,
		Code:   code,
		Registration: &entity.Registration{
			FirstName:        "Sara",
			LastName:         "Karimi",
			IsOrganization:   true,
			OrganizationName: "Karimi Print",
		},
	})
	if err != nil {
		t.Fatalf("VerifyCode() registration error = %v", err)
	}
	if got.Message != "Registration complete." || got.RedirectURL == "" {
		t.Fatalf("VerifyCode() = %+v", got)
	}

	acc, err := mod.Store.GetAccount(ctx, mobile)
	if err != nil {
		t.Fatalf("GetAccount() error = %v", err)
	}
	if !acc.IsCorporate || acc.CompanyName != "Karimi Print" {
		t.Fatalf("account = %+v", acc)
	}
}

func TestModule_RefusalsCarryServerMessage(t *testing.T) {
	_, client := newServer(t)
	ctx := context.Background()
	mobile := "09123333333"

	if _, err := client.SendCode(ctx, mobile); err != nil {
		t.Fatalf("SendCode() error = %v", err)
	}

	_, err := client.SendCode(ctx, mobile)
	if goerror.TypeOf(err) != goerror.TypeBusiness {
		t.Fatalf("second SendCode() type = %v, want business", goerror.TypeOf(err))
	}
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeTooManyRequest {
		t.Fatalf("second SendCode() error = %v", err)
	}

	_, err = client.VerifyCode(ctx, entity.VerifyRequest{Mobile: "09124444444", Code: "12345"})
	if got := goerror.MessageOf(err); got != "No code was requested for this number" {
		t.Fatalf("VerifyCode() message = %q", got)
	}
}

func TestModule_RootEndpoint(t *testing.T) {
	r := router.NewRouter(router.Config{Name: "verifier", UUID: uid.Static("x"), Instrument: instrument.NewNoop()})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
