package resilience

import (
	"fmt"

	"golang.org/x/sync/singleflight"
)

// SingleFlight collapses concurrent calls sharing a key into one execution,
// typed over the result so callers skip the interface assertion.
type SingleFlight[T any] struct {
	group singleflight.Group
}

func (g *SingleFlight[T]) Do(key string, fn func() (T, error)) (T, error, bool) {
	out, err, shared := g.group.Do(key, func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err, shared
	}
	value, ok := out.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("singleflight key=%s: unexpected result type %T", key, out), shared
	}
	return value, nil, shared
}

func (g *SingleFlight[T]) Forget(key string) {
	g.group.Forget(key)
}
