package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tabesh/tabesh-auth/internal/auth/entity"
	"github.com/tabesh/tabesh-auth/internal/pkg/goerror"
	"github.com/tabesh/tabesh-auth/internal/pkg/instrument"
)

type recorded struct {
	path   string
	nonce  string
	cid    string
	body   map[string]any
	method string
}

func newServer(t *testing.T, status int, reply string, got *recorded) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			got.path = r.URL.Path
			got.method = r.Method
			got.nonce = r.Header.Get(HeaderNonce)
			got.cid = r.Header.Get(HeaderCorrelationID)
			if err := json.NewDecoder(r.Body).Decode(&got.body); err != nil {
				t.Errorf("decode request body: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_CheckExistence(t *testing.T) {
	// Arrange
	var got recorded
	srv := newServer(t, http.StatusOK, `{"success":true,"message":"","data":{"exists":true}}`, &got)
	c := New(Config{BaseURL: srv.URL + "/wp-json/tabesh/v1/", Nonce: "n0nce"}, nil)
	ctx := instrument.SetCorrelationID(context.Background(), "cid-1")

	// Act
	exists, err := c.CheckExistence(ctx, "09123456789")

	// Assert
	if err != nil {
		t.Fatalf("CheckExistence: %v", err)
	}
	if !exists {
		t.Fatal("exists = false, want true")
	}
	if got.method != http.MethodPost || got.path != "/wp-json/tabesh/v1/auth/check-user" {
		t.Fatalf("request = %s %s", got.method, got.path)
	}
	if got.nonce != "n0nce" || got.cid != "cid-1" {
		t.Fatalf("headers nonce=%q cid=%q", got.nonce, got.cid)
	}
	if got.body["mobile"] != "09123456789" {
		t.Fatalf("body = %v", got.body)
	}
}

func TestClient_SendCode(t *testing.T) {
	var got recorded
	srv := newServer(t, http.StatusOK, `{"success":true,"message":"کد ارسال شد"}`, &got)
	c := New(Config{BaseURL: srv.URL}, nil)

	reply, err := c.SendCode(context.Background(), "09123456789")

	if err != nil {
		t.Fatalf("SendCode: %v", err)
	}
	if !reply.Success || reply.Message != "کد ارسال شد" {
		t.Fatalf("reply = %+v", reply)
	}
	if got.path != PathSendOTP || got.nonce != "" {
		t.Fatalf("path=%q nonce=%q", got.path, got.nonce)
	}
}

func TestClient_VerifyCode(t *testing.T) {
	var got recorded
	srv := newServer(t, http.StatusOK,
		`{"success":true,"message":"ok","data":{"needs_registration":false,"redirect_url":"https://shop.example/panel"}}`, &got)
	c := New(Config{BaseURL: srv.URL}, nil)

	reply, err := c.VerifyCode(context.Background(), entity.VerifyRequest{
		Mobile: "09123456789",
		Code:   "12345",
		Registration: &entity.Registration{
			FirstName:        "Sara",
			LastName:         "Karimi",
			IsOrganization:   true,
			OrganizationName: "Chapkhane",
		},
	})

	if err != nil {
		t.Fatalf("VerifyCode: %v", err)
	}
	if reply.NeedsRegistration || reply.RedirectURL != "https://shop.example/panel" || reply.Message != "ok" {
		t.Fatalf("reply = %+v", reply)
	}
	want := map[string]any{
		"mobile":       "09123456789",
		"code":         "12345",
		"first_name":   "Sara",
		"last_name":    "Karimi",
		"is_corporate": true,
		"company_name": "Chapkhane",
	}
	for k, v := range want {
		if got.body[k] != v {
			t.Fatalf("body[%s] = %v, want %v", k, got.body[k], v)
		}
	}
}

func TestClient_VerifyCodeWithoutRegistrationOmitsProfile(t *testing.T) {
	var got recorded
	srv := newServer(t, http.StatusOK, `{"success":true,"message":"","data":{"needs_registration":true}}`, &got)
	c := New(Config{BaseURL: srv.URL}, nil)

	reply, err := c.VerifyCode(context.Background(), entity.VerifyRequest{Mobile: "09123456789", Code: "12345"})

	if err != nil {
		t.Fatalf("VerifyCode: %v", err)
	}
	if !reply.NeedsRegistration {
		t.Fatal("NeedsRegistration = false")
	}
	if _, ok := got.body["first_name"]; ok {
		t.Fatalf("profile fields sent: %v", got.body)
	}
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		reply    string
		wantType goerror.Type
		wantMsg  string
		wantCode goerror.Code
	}{
		{
			name:     "success false",
			status:   http.StatusOK,
			reply:    `{"success":false,"message":"invalid code"}`,
			wantType: goerror.TypeBusiness,
			wantMsg:  "invalid code",
			wantCode: goerror.CodeInvalidInput,
		},
		{
			name:     "wp error",
			status:   http.StatusTooManyRequests,
			reply:    `{"code":"rate_limited","message":"wait a bit","data":{"status":429}}`,
			wantType: goerror.TypeBusiness,
			wantMsg:  "wait a bit",
			wantCode: goerror.CodeTooManyRequest,
		},
		{
			name:     "server error without message",
			status:   http.StatusInternalServerError,
			reply:    `{"success":false}`,
			wantType: goerror.TypeBusiness,
			wantCode: goerror.CodeInternal,
		},
		{
			name:     "html from proxy",
			status:   http.StatusBadGateway,
			reply:    `<html>bad gateway</html>`,
			wantType: goerror.TypeTransport,
			wantCode: goerror.CodeUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.status, tt.reply, nil)
			c := New(Config{BaseURL: srv.URL}, nil)

			_, err := c.SendCode(context.Background(), "09123456789")

			var gerr *goerror.Error
			if !errors.As(err, &gerr) {
				t.Fatalf("SendCode() = %v, want *goerror.Error", err)
			}
			if gerr.Type() != tt.wantType || gerr.Msg() != tt.wantMsg || gerr.Code() != tt.wantCode {
				t.Fatalf("error = %s", gerr.String())
			}
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Config{BaseURL: url}, nil)
	_, err := c.CheckExistence(context.Background(), "09123456789")

	if goerror.TypeOf(err) != goerror.TypeTransport {
		t.Fatalf("error type = %s, want transport", goerror.TypeOf(err))
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"success":true}`, nil)
	c := New(Config{BaseURL: srv.URL}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.SendCode(ctx, "09123456789")

	if goerror.TypeOf(err) != goerror.TypeTransport || !errors.Is(err, context.Canceled) {
		t.Fatalf("SendCode() = %v", err)
	}
}
