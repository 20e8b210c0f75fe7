package validation

import (
	"context"
	"net/http"
)

type contextKey struct{}

// Result holds the values parsed by a successful Check.
type Result struct {
	params map[string]string
	ids    map[string]uint
	query  map[string]string
	body   any
}

// WithResult stores res in ctx for the handler.
func WithResult(ctx context.Context, res *Result) context.Context {
	return context.WithValue(ctx, contextKey{}, res)
}

func resultFrom(r *http.Request) *Result {
	res, _ := r.Context().Value(contextKey{}).(*Result)
	if res == nil {
		return &Result{}
	}
	return res
}

// ID returns the parsed integer path parameter name.
func ID(r *http.Request, name string) uint {
	return resultFrom(r).ids[name]
}

// Param returns the raw path parameter name.
func Param(r *http.Request, name string) string {
	return resultFrom(r).params[name]
}

// Query returns the trimmed query parameter name.
func Query(r *http.Request, name string) string {
	return resultFrom(r).query[name]
}

// Body returns the decoded and validated body, or nil when the route
// declared no body of type T.
func Body[T any](r *http.Request) *T {
	body, _ := resultFrom(r).body.(*T)
	return body
}

// Middleware runs Check before next, passing failures to fail.
func (v *Validator) Middleware(rules Rules, fail func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			}
			res, err := v.Check(r, rules)
			if err != nil {
				fail(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithResult(r.Context(), res)))
		})
	}
}
