package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(newHandler(&Config{
		ServiceName:       "tabesh-auth",
		MaskFields:        []string{"code"},
		PartialMaskFields: []string{"mobile"},
		LogWriter:         buf,
	}, nil))
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return line
}

func TestLogging_MasksCodeAndMobile(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	logger.Info("verify code", "mobile", "09123456789", "code", "12345", "step", "code_entry")

	line := decodeLine(t, &buf)
	if line["code"] != "***" {
		t.Errorf("code = %v, want ***", line["code"])
	}
	if line["mobile"] != "0912*****89" {
		t.Errorf("mobile = %v, want 0912*****89", line["mobile"])
	}
	if line["step"] != "code_entry" {
		t.Errorf("step = %v", line["step"])
	}
	if line["service"] != "tabesh-auth" {
		t.Errorf("service = %v", line["service"])
	}
	if _, ok := line["severity"]; !ok {
		t.Error("severity key missing")
	}
}

func TestLogging_MasksJSONPayload(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	logger.Info("request", "body", `{"mobile":"09123456789","code":"12345"}`)

	line := decodeLine(t, &buf)
	var body map[string]any
	if err := json.Unmarshal([]byte(line["body"].(string)), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["code"] != "***" || body["mobile"] != "0912*****89" {
		t.Fatalf("body = %v", body)
	}
}

func TestLogging_MasksWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf).With("code", "54321")

	logger.Info("resend")

	if line := decodeLine(t, &buf); line["code"] != "***" {
		t.Fatalf("code = %v, want ***", line["code"])
	}
}

func TestLogging_CorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	logger.InfoContext(SetCorrelationID(context.Background(), "cid-1"), "hello")

	if line := decodeLine(t, &buf); line["_cID"] != "cid-1" {
		t.Fatalf("_cID = %v, want cid-1", line["_cID"])
	}
}

func TestPartialMask(t *testing.T) {
	if got := partialMask("12345"); got != "***" {
		t.Fatalf("partialMask(short) = %q", got)
	}
	if got := partialMask("09123456789"); got != "0912*****89" {
		t.Fatalf("partialMask(mobile) = %q", got)
	}
}

func TestNew_DisabledReturnsNoop(t *testing.T) {
	ins, err := New(context.Background(), &Config{LogWriter: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := ins.(*noopInstrumentation); !ok {
		t.Fatalf("New() = %T, want noop", ins)
	}
	if err := ins.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
