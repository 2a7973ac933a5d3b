package middleware

import "net/http"

type Middleware func(http.Handler) http.Handler

// NewStack composes middlewares so the first argument is the
// outermost layer.
func NewStack(layers ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(layers) - 1; i >= 0; i-- {
			next = layers[i](next)
		}
		return next
	}
}
