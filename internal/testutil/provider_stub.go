package testutil

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"reservation-coordinator/internal/game"
	"reservation-coordinator/internal/provider"
)

// ProviderStub answers the provider protocol in memory. Offers cycle through
// pairs and costs grow by one per offer so every offer is distinguishable.
type ProviderStub struct {
	mu       sync.Mutex
	pairs    []string
	nextCost int64
	resetErr error
	fail     map[string]map[string]error
	hang     map[string]map[string]bool
	calls    map[string][]provider.LegRequest
}

func NewProviderStub(pairs ...string) *ProviderStub {
	if len(pairs) == 0 {
		pairs = []string{"A-B"}
	}
	return &ProviderStub{
		pairs:    pairs,
		nextCost: 100,
		fail:     map[string]map[string]error{},
		hang:     map[string]map[string]bool{},
		calls:    map[string][]provider.LegRequest{},
	}
}

func (s *ProviderStub) SetResetErr(err error) {
	s.mu.Lock()
	s.resetErr = err
	s.mu.Unlock()
}

// FailTry makes every try on the given leg fail with err.
func (s *ProviderStub) FailTry(leg string, err error) { s.setFail("try", leg, err) }

// HangTry makes every try on the given leg block until its context ends.
func (s *ProviderStub) HangTry(leg string) { s.setHang("try", leg) }

func (s *ProviderStub) FailConfirm(leg string, err error) { s.setFail("confirm", leg, err) }

func (s *ProviderStub) HangConfirm(leg string) { s.setHang("confirm", leg) }

func (s *ProviderStub) FailCancel(leg string, err error) { s.setFail("cancel", leg, err) }

func (s *ProviderStub) HangCancel(leg string) { s.setHang("cancel", leg) }

func (s *ProviderStub) setFail(op, leg string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[op] == nil {
		s.fail[op] = map[string]error{}
	}
	s.fail[op][leg] = err
}

func (s *ProviderStub) setHang(op, leg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hang[op] == nil {
		s.hang[op] = map[string]bool{}
	}
	s.hang[op][leg] = true
}

func (s *ProviderStub) CallCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls[op])
}

func (s *ProviderStub) Calls(op string) []provider.LegRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]provider.LegRequest(nil), s.calls[op]...)
}

func (s *ProviderStub) offers(n int) []game.LegOffer {
	out := make([]game.LegOffer, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, game.LegOffer{
			Pair: s.pairs[i%len(s.pairs)],
			Cost: decimal.NewFromInt(s.nextCost),
		})
		s.nextCost++
	}
	return out
}

func (s *ProviderStub) Reset(_ context.Context, _ string, n int) ([]game.LegOffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["reset"] = append(s.calls["reset"], provider.LegRequest{})
	if s.resetErr != nil {
		return nil, s.resetErr
	}
	return s.offers(n), nil
}

func (s *ProviderStub) Add(_ context.Context, _ string, n int) ([]game.LegOffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["add"] = append(s.calls["add"], provider.LegRequest{})
	return s.offers(n), nil
}

func (s *ProviderStub) Try(ctx context.Context, _ string, req provider.LegRequest) error {
	return s.legCall(ctx, "try", req)
}

func (s *ProviderStub) Confirm(ctx context.Context, _ string, req provider.LegRequest) error {
	return s.legCall(ctx, "confirm", req)
}

func (s *ProviderStub) Cancel(ctx context.Context, _ string, req provider.LegRequest) error {
	return s.legCall(ctx, "cancel", req)
}

func (s *ProviderStub) legCall(ctx context.Context, op string, req provider.LegRequest) error {
	s.mu.Lock()
	s.calls[op] = append(s.calls[op], req)
	hang := s.hang[op][req.Leg]
	err := s.fail[op][req.Leg]
	s.mu.Unlock()
	if hang {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}
