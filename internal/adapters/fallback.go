package adapters

import (
	"context"
	"errors"

	"anchor/pkg/derrors"
)

// Strategy is one step of an ordered fallback chain.
type Strategy[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, CallInfo, error)
}

// ChainResult reports which strategy answered and what it cost.
type ChainResult[T any] struct {
	Value    T
	Info     CallInfo
	Strategy string
}

// RunChain tries each strategy in order under the invoker's timeout and
// returns the first success. When every strategy fails the joined errors
// come back as a single exhausted error, so callers see primary, secondary,
// and give-up as one ordered chain instead of nested branching.
func RunChain[T any](ctx context.Context, inv *Invoker, strategies ...Strategy[T]) (ChainResult[T], error) {
	var failures []error
	for _, s := range strategies {
		value, info, err := Call(ctx, inv, s.Name, s.Run)
		if err == nil {
			return ChainResult[T]{Value: value, Info: info, Strategy: s.Name}, nil
		}
		failures = append(failures, err)
		if ctx.Err() != nil {
			break
		}
	}
	if len(failures) == 0 {
		return ChainResult[T]{}, derrors.New(derrors.CodeInvalidInput, "no strategies given")
	}
	return ChainResult[T]{}, derrors.Wrap(errors.Join(failures...), derrors.CodeExhausted, "all fallback strategies failed")
}
