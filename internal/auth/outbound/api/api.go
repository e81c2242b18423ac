// Package api talks to the verification service exposed by the WordPress
// plugin REST namespace.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tabesh/tabesh-auth/internal/auth/entity"
	"github.com/tabesh/tabesh-auth/internal/pkg/goerror"
	"github.com/tabesh/tabesh-auth/internal/pkg/instrument"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	PathCheckUser = "/auth/check-user"
	PathSendOTP   = "/auth/send-otp"
	PathVerifyOTP = "/auth/verify-otp"

	HeaderNonce         = "X-WP-Nonce"
	HeaderCorrelationID = "X-Correlation-ID"

	defaultTimeout = 15 * time.Second
	maxReplyBytes  = 1 << 20
)

// Config locates the service.
type Config struct {
	// BaseURL is the REST namespace root, e.g. https://shop.example/wp-json/tabesh/v1.
	BaseURL string
	// Nonce is sent as X-WP-Nonce when set.
	Nonce string
	// Timeout bounds each call. Zero means 15 seconds.
	Timeout time.Duration
	// HTTPClient overrides the default client; tests pass httptest clients.
	HTTPClient *http.Client
}

// Client implements the three verification calls over JSON.
type Client struct {
	baseURL string
	nonce   string
	http    *http.Client
	ins     instrument.Instrumentation
}

// New returns a Client for cfg.
func New(cfg Config, ins instrument.Instrumentation) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	if ins == nil {
		ins = instrument.NewNoop()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		nonce:   cfg.Nonce,
		http:    hc,
		ins:     ins,
	}
}

type request struct {
	Mobile      string `json:"mobile"`
	Code        string `json:"code,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	IsCorporate bool   `json:"is_corporate,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
}

// envelope covers both the plugin's {"success","message","data"} replies and
// WP_Error bodies ({"code","message","data":{"status"}}).
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type payload struct {
	Exists            bool   `json:"exists"`
	NeedsRegistration bool   `json:"needs_registration"`
	RedirectURL       string `json:"redirect_url"`
}

// CheckExistence reports whether an account is registered for mobile.
func (c *Client) CheckExistence(ctx context.Context, mobile string) (bool, error) {
	p, _, err := c.post(ctx, "CheckExistence", PathCheckUser, request{Mobile: mobile})
	if err != nil {
		return false, err
	}
	return p.Exists, nil
}

// SendCode asks the service to text a new code to mobile.
func (c *Client) SendCode(ctx context.Context, mobile string) (*entity.Reply, error) {
	_, msg, err := c.post(ctx, "SendCode", PathSendOTP, request{Mobile: mobile})
	if err != nil {
		return nil, err
	}
	return &entity.Reply{Success: true, Message: msg}, nil
}

// VerifyCode checks a code, completing the profile when in.Registration is set.
func (c *Client) VerifyCode(ctx context.Context, in entity.VerifyRequest) (*entity.VerifyReply, error) {
	body := request{Mobile: in.Mobile, Code: in.Code}
	if reg := in.Registration; reg != nil {
		body.FirstName = reg.FirstName
		body.LastName = reg.LastName
		body.IsCorporate = reg.IsOrganization
		body.CompanyName = reg.OrganizationName
	}

	p, msg, err := c.post(ctx, "VerifyCode", PathVerifyOTP, body)
	if err != nil {
		return nil, err
	}
	return &entity.VerifyReply{
		Success:           true,
		Message:           msg,
		NeedsRegistration: p.NeedsRegistration,
		RedirectURL:       p.RedirectURL,
	}, nil
}

// post sends body to path. Unreachable or unreadable replies become transport
// errors; replies refused by the service become business errors carrying the
// service's message.
func (c *Client) post(ctx context.Context, op, path string, body request) (payload, string, error) {
	ctx, span := c.ins.Tracer("auth.outbound.api").Start(ctx, op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	p, msg, err := c.do(ctx, path, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return p, msg, err
}

func (c *Client) do(ctx context.Context, path string, body request) (payload, string, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return payload{}, "", goerror.NewServer(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return payload{}, "", goerror.NewServer(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.nonce != "" {
		req.Header.Set(HeaderNonce, c.nonce)
	}
	if cID := instrument.GetCorrelationID(ctx); cID != "" {
		req.Header.Set(HeaderCorrelationID, cID)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return payload{}, "", goerror.NewTransport(err)
	}
	defer resp.Body.Close()

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return payload{}, "", goerror.NewTransport(err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return payload{}, "", goerror.NewTransport(fmt.Errorf("api: undecodable reply status=%d: %w", resp.StatusCode, err))
	}

	ok := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
	if !ok {
		return payload{}, "", goerror.NewBusiness(env.Message, goerror.FromStatus(resp.StatusCode))
	}
	if env.Success != nil && !*env.Success {
		return payload{}, "", goerror.NewBusiness(env.Message, goerror.CodeInvalidInput)
	}

	var p payload
	if len(env.Data) > 0 && env.Data[0] == '{' {
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return payload{}, "", goerror.NewTransport(fmt.Errorf("api: undecodable data: %w", err))
		}
	}

	return p, env.Message, nil
}
