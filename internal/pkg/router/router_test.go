package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tabesh/tabesh-auth/internal/pkg/goerror"
	"github.com/tabesh/tabesh-auth/internal/pkg/uid"
	"github.com/tabesh/tabesh-auth/internal/pkg/validator"
)

type echoResponse struct {
	Mobile string `json:"mobile"`
}

func (echoResponse) Message() string { return "echoed" }

func newTestRouter() *Router {
	r := NewRouter(Config{Name: "verifier", UUID: uid.Static("cid-generated")})

	r.POST("/echo", func(req *Request) (any, error) {
		var in echoResponse
		if err := req.DecodeBody(&in); err != nil {
			return nil, err
		}
		return echoResponse(in), nil
	})
	r.POST("/business", func(*Request) (any, error) {
		return nil, goerror.NewBusiness("کد اشتباه است", goerror.CodeUnauthorized)
	})
	r.POST("/validation", func(*Request) (any, error) {
		return nil, validator.V10ValidationError{"mobile": "mobile is invalid"}
	})
	r.POST("/plain", func(*Request) (any, error) {
		return nil, errors.New("db down")
	})
	r.POST("/panic", func(*Request) (any, error) {
		panic("boom")
	})

	return r
}

func do(t *testing.T, h http.Handler, method, path, body string, header map[string]string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func TestRouter_Envelopes(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		body        string
		wantStatus  int
		wantSuccess bool
		wantMessage string
	}{
		{name: "success", path: "/echo", body: `{"mobile":"09123456789"}`, wantStatus: http.StatusOK, wantSuccess: true, wantMessage: "echoed"},
		{name: "bad body", path: "/echo", body: `{"unknown":1}`, wantStatus: http.StatusBadRequest, wantMessage: "Invalid request body"},
		{name: "business", path: "/business", wantStatus: http.StatusUnauthorized, wantMessage: "کد اشتباه است"},
		{name: "validation", path: "/validation", wantStatus: http.StatusUnprocessableEntity, wantMessage: "Validation error"},
		{name: "plain error", path: "/plain", wantStatus: http.StatusInternalServerError, wantMessage: "Internal server error"},
		{name: "panic", path: "/panic", wantStatus: http.StatusInternalServerError, wantMessage: "Internal server error"},
		{name: "not found", path: "/missing", wantStatus: http.StatusNotFound, wantMessage: "endpoint not found"},
	}

	r := newTestRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, r, http.MethodPost, tt.path, tt.body, nil)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if env.Success != tt.wantSuccess {
				t.Fatalf("success = %v, want %v", env.Success, tt.wantSuccess)
			}
			if env.Message != tt.wantMessage {
				t.Fatalf("message = %q, want %q", env.Message, tt.wantMessage)
			}
		})
	}
}

func TestRouter_CorrelationID(t *testing.T) {
	r := newTestRouter()

	rec, _ := do(t, r, http.MethodPost, "/echo", `{"mobile":"1"}`, map[string]string{HeaderCorrelationID: "cid-client"})
	if got := rec.Header().Get(HeaderCorrelationID); got != "cid-client" {
		t.Fatalf("echoed cid = %q, want cid-client", got)
	}

	rec, _ = do(t, r, http.MethodPost, "/echo", `{"mobile":"1"}`, nil)
	if got := rec.Header().Get(HeaderCorrelationID); got != "cid-generated" {
		t.Fatalf("generated cid = %q, want cid-generated", got)
	}
}

func TestNormalizeCID(t *testing.T) {
	if got := normalizeCID("a\r\nb"); got != "" {
		t.Fatalf("normalizeCID(crlf) = %q", got)
	}
	if got := normalizeCID(strings.Repeat("x", 200)); len(got) != maxCIDLength {
		t.Fatalf("len = %d, want %d", len(got), maxCIDLength)
	}
}

func TestWithCORS_Preflight(t *testing.T) {
	h := WithCORS(newTestRouter(), []string{"https://shop.example"})

	req := httptest.NewRequest(http.MethodOptions, "/echo", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}
