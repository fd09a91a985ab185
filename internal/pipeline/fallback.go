package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Operation produces a value of type T or fails. Every tier of a chain
// produces the same shape so downstream stages stay fallback-agnostic.
type Operation[T any] func(ctx context.Context) (T, error)

// Tier is one substitute producer, optionally with its own timeout.
// Zero timeout means no per-tier deadline.
type Tier[T any] struct {
	Name    string
	Timeout time.Duration
	Run     Operation[T]
}

// FallbackChain wraps a primary operation with a deadline race and an
// ordered list of substitute producers tried on failure or timeout.
type FallbackChain[T any] struct {
	name       string
	timeout    time.Duration
	primary    Operation[T]
	tiers      []Tier[T]
	onFallback func(tier string, cause error)
}

// NewFallbackChain builds a chain around the primary operation.
// onFallback is invoked once per tier entered, with the error that
// forced the switch; it is used to record degradation events. It may
// be nil.
func NewFallbackChain[T any](name string, timeout time.Duration, primary Operation[T], onFallback func(tier string, cause error), tiers ...Tier[T]) *FallbackChain[T] {
	return &FallbackChain[T]{
		name:       name,
		timeout:    timeout,
		primary:    primary,
		tiers:      tiers,
		onFallback: onFallback,
	}
}

// Run tries the primary, then each substitute in order, returning the
// first success. If everything fails the aggregated error of all tiers
// is returned.
func (c *FallbackChain[T]) Run(ctx context.Context) (T, error) {
	val, err := race(ctx, c.name, c.timeout, c.primary)
	if err == nil {
		return val, nil
	}

	failures := []error{fmt.Errorf("%s: %w", c.name, err)}
	for _, tier := range c.tiers {
		if c.onFallback != nil {
			c.onFallback(tier.Name, err)
		}
		val, err = race(ctx, tier.Name, tier.Timeout, tier.Run)
		if err == nil {
			return val, nil
		}
		failures = append(failures, fmt.Errorf("%s: %w", tier.Name, err))
	}

	var zero T
	return zero, errors.Join(failures...)
}

// race runs op against a deadline. The operation loses the race on
// timer expiry and the chain proceeds; the operation itself is not
// forcibly aborted and may keep running in the background with its
// result discarded. That leak is a documented trade-off, not a bug.
func race[T any](ctx context.Context, name string, timeout time.Duration, op Operation[T]) (T, error) {
	var zero T
	if op == nil {
		return zero, fmt.Errorf("operation %q is nil", name)
	}
	if timeout <= 0 {
		return op(ctx)
	}

	type outcome struct {
		val T
		err error
	}
	// Buffered so the losing goroutine can finish without a receiver.
	done := make(chan outcome, 1)
	go func() {
		val, err := op(ctx)
		done <- outcome{val, err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		return out.val, out.err
	case <-timer.C:
		return zero, &StageTimeoutError{Operation: name, Timeout: timeout}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
