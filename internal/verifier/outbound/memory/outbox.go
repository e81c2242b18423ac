package memory

import (
	"context"
	"log/slog"
	"sync"
)

// Outbox stands in for the SMS gateway. Codes are kept for inspection and
// logged; the mask handler hides them unless ShowCodes is set.
type Outbox struct {
	mu        sync.Mutex
	sent      map[string][]string
	showCodes bool
}

func NewOutbox(showCodes bool) *Outbox {
	return &Outbox{sent: make(map[string][]string), showCodes: showCodes}
}

func (o *Outbox) SendCode(ctx context.Context, mobile, code string) error {
	o.mu.Lock()
	o.sent[mobile] = append(o.sent[mobile], code)
	o.mu.Unlock()

	if o.showCodes {
		slog.InfoContext(ctx, "verification code issued", "mobile", mobile, "dev_code", code)
		return nil
	}
	slog.InfoContext(ctx, "verification code issued", "mobile", mobile, "code", code)
	return nil
}

// Last returns the most recent code sent to mobile.
func (o *Outbox) Last(mobile string) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	codes := o.sent[mobile]
	if len(codes) == 0 {
		return "", false
	}
	return codes[len(codes)-1], true
}

// Count returns how many codes were sent to mobile.
func (o *Outbox) Count(mobile string) int {
	o.mu.Lock()
	defer o.mu.Unlock()

	return len(o.sent[mobile])
}
