// Package memory keeps accounts and issued codes in process memory.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/tabesh/tabesh-auth/internal/pkg/goerror"
	"github.com/tabesh/tabesh-auth/internal/pkg/instrument"
	"github.com/tabesh/tabesh-auth/internal/verifier/entity"
	"go.opentelemetry.io/otel/trace"
)

type Store struct {
	mu         sync.RWMutex
	accounts   map[string]entity.Account
	challenges map[string]entity.Challenge
	ins        instrument.Instrumentation
}

// NewStore returns a Store knowing the given mobile numbers as registered.
func NewStore(ins instrument.Instrumentation, seed ...string) *Store {
	seed = lo.Uniq(lo.Compact(lo.Map(seed, func(m string, _ int) string { return strings.TrimSpace(m) })))

	return &Store{
		accounts: lo.SliceToMap(seed, func(m string) (string, entity.Account) {
			return m, entity.Account{Mobile: m}
		}),
		challenges: make(map[string]entity.Challenge),
		ins:        ins,
	}
}

func (s *Store) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("verifier.outbound.memory").Start(ctx, name)
}

func (s *Store) GetAccount(ctx context.Context, mobile string) (*entity.Account, error) {
	_, span := s.startSpan(ctx, "GetAccount")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[mobile]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &acc, nil
}

func (s *Store) CreateAccount(ctx context.Context, acc entity.Account) error {
	_, span := s.startSpan(ctx, "CreateAccount")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[acc.Mobile]; ok {
		return goerror.ErrConflict
	}
	s.accounts[acc.Mobile] = acc
	return nil
}

// Accounts returns the registered mobile numbers.
func (s *Store) Accounts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Keys(s.accounts)
}

func (s *Store) GetChallenge(ctx context.Context, mobile string) (*entity.Challenge, error) {
	_, span := s.startSpan(ctx, "GetChallenge")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, ok := s.challenges[mobile]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &ch, nil
}

func (s *Store) SaveChallenge(ctx context.Context, ch entity.Challenge) error {
	_, span := s.startSpan(ctx, "SaveChallenge")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.challenges[ch.Mobile] = ch
	return nil
}

func (s *Store) DeleteChallenge(ctx context.Context, mobile string) error {
	_, span := s.startSpan(ctx, "DeleteChallenge")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.challenges, mobile)
	return nil
}
