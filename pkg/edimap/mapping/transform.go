package mapping

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownTransformation indicates a transformation name with no registered function.
var ErrUnknownTransformation = errors.New("unknown transformation")

// TransformFunc rewrites a mapped value.
type TransformFunc func(value any) (any, error)

// Registry holds named transformations. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]TransformFunc
}

// NewRegistry returns a registry with the built-in transformations.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]TransformFunc)}
	r.Register("uppercase", func(v any) (any, error) { return strings.ToUpper(stringify(v)), nil })
	r.Register("lowercase", func(v any) (any, error) { return strings.ToLower(stringify(v)), nil })
	r.Register("trim", func(v any) (any, error) { return strings.TrimSpace(stringify(v)), nil })
	r.Register("abs", numberTransform(math.Abs))
	r.Register("round", numberTransform(func(f float64) float64 { return math.Floor(f + 0.5) }))
	r.Register("floor", numberTransform(math.Floor))
	r.Register("ceil", numberTransform(math.Ceil))
	r.Register("toISO8601Date", func(v any) (any, error) { return toDate(v, "") })
	r.Register("toISO8601DateTime", func(v any) (any, error) { return toDateTime(v, "") })
	return r
}

// Register adds or replaces a transformation.
func (r *Registry) Register(name string, fn TransformFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
}

// Apply runs the named transformation on value.
func (r *Registry) Apply(name string, value any) (any, error) {
	r.mu.RLock()
	fn, ok := r.funcs[name]
	r.mu.RUnlock()
	if !ok {
		return value, fmt.Errorf("%w: %s", ErrUnknownTransformation, name)
	}
	return fn(value)
}

// Names lists the registered transformations in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func numberTransform(fn func(float64) float64) TransformFunc {
	return func(v any) (any, error) {
		n, err := toNumber(v)
		if err != nil {
			return nil, err
		}
		return fn(n), nil
	}
}
