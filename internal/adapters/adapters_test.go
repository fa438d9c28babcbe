package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"anchor/pkg/derrors"
)

type AdaptersSuite struct {
	suite.Suite
	ctx context.Context
}

func TestAdaptersSuite(t *testing.T) {
	suite.Run(t, new(AdaptersSuite))
}

func (s *AdaptersSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *AdaptersSuite) TestCall() {
	s.Run("passes through a successful call", func() {
		inv := NewInvoker()
		value, info, err := Call(s.ctx, inv, "lookup", func(context.Context) (string, CallInfo, error) {
			return "hit", CallInfo{Cost: 0.02, Source: "vendor"}, nil
		})
		s.Require().NoError(err)
		s.Equal("hit", value)
		s.Equal(0.02, info.Cost)
	})

	s.Run("wraps adapter failures as unavailable", func() {
		inv := NewInvoker()
		_, _, err := Call(s.ctx, inv, "lookup", func(context.Context) (string, CallInfo, error) {
			return "", CallInfo{}, errors.New("vendor down")
		})
		s.Require().Error(err)
		s.True(derrors.HasCode(err, derrors.CodeUnavailable))
	})

	s.Run("enforces the per-call timeout", func() {
		inv := NewInvoker(WithTimeout(10 * time.Millisecond))
		_, _, err := Call(s.ctx, inv, "slow", func(ctx context.Context) (string, CallInfo, error) {
			select {
			case <-ctx.Done():
				return "", CallInfo{}, ctx.Err()
			case <-time.After(time.Second):
				return "late", CallInfo{}, nil
			}
		})
		s.Require().Error(err)
		s.True(derrors.HasCode(err, derrors.CodeUnavailable))
	})

	s.Run("nil invoker uses defaults", func() {
		value, _, err := Call(s.ctx, nil, "lookup", func(context.Context) (int, CallInfo, error) {
			return 42, CallInfo{}, nil
		})
		s.Require().NoError(err)
		s.Equal(42, value)
	})
}

func (s *AdaptersSuite) TestRunChain() {
	inv := NewInvoker()

	s.Run("first success wins", func() {
		result, err := RunChain(s.ctx, inv,
			Strategy[string]{Name: "primary", Run: func(context.Context) (string, CallInfo, error) {
				return "primary-value", CallInfo{Source: "primary"}, nil
			}},
			Strategy[string]{Name: "secondary", Run: func(context.Context) (string, CallInfo, error) {
				s.Fail("secondary must not run after primary succeeds")
				return "", CallInfo{}, nil
			}},
		)
		s.Require().NoError(err)
		s.Equal("primary-value", result.Value)
		s.Equal("primary", result.Strategy)
	})

	s.Run("falls through to the next strategy", func() {
		result, err := RunChain(s.ctx, inv,
			Strategy[string]{Name: "primary", Run: func(context.Context) (string, CallInfo, error) {
				return "", CallInfo{}, errors.New("primary down")
			}},
			Strategy[string]{Name: "secondary", Run: func(context.Context) (string, CallInfo, error) {
				return "secondary-value", CallInfo{Cost: 0.10}, nil
			}},
		)
		s.Require().NoError(err)
		s.Equal("secondary-value", result.Value)
		s.Equal("secondary", result.Strategy)
		s.Equal(0.10, result.Info.Cost)
	})

	s.Run("all failures join into one exhausted error", func() {
		_, err := RunChain(s.ctx, inv,
			Strategy[string]{Name: "primary", Run: func(context.Context) (string, CallInfo, error) {
				return "", CallInfo{}, errors.New("primary down")
			}},
			Strategy[string]{Name: "secondary", Run: func(context.Context) (string, CallInfo, error) {
				return "", CallInfo{}, errors.New("secondary down")
			}},
		)
		s.Require().Error(err)
		s.True(derrors.HasCode(err, derrors.CodeExhausted))
		s.Contains(err.Error(), "primary down")
		s.Contains(err.Error(), "secondary down")
	})

	s.Run("empty chain is invalid input", func() {
		_, err := RunChain[string](s.ctx, inv)
		s.Require().Error(err)
		s.True(derrors.HasCode(err, derrors.CodeInvalidInput))
	})
}

func (s *AdaptersSuite) TestCostLedger() {
	s.Run("allows spend under the ceiling", func() {
		ledger := NewCostLedger(0.50)
		s.True(ledger.Allow(0.10))
		ledger.Record(0.45)
		s.True(ledger.Allow(0.05))
		s.False(ledger.Allow(0.10))
	})

	s.Run("zero ceiling is unlimited", func() {
		ledger := NewCostLedger(0)
		ledger.Record(1000)
		s.True(ledger.Allow(1000))
	})

	s.Run("negative spend is ignored", func() {
		ledger := NewCostLedger(1)
		ledger.Record(-5)
		s.Zero(ledger.Spent())
	})

	s.Run("spend accumulates", func() {
		ledger := NewCostLedger(1)
		ledger.Record(0.10)
		ledger.Record(0.10)
		s.InDelta(0.20, ledger.Spent(), 1e-9)
	})
}
