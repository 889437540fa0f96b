package middleware

import (
	"net/http"
	"slices"
)

// Chain wraps h so that a request passes through middlewares left to right
// before reaching h. tagbox installs:
//
//	Chain(mux, RequestLogging, AuthMiddleware(auth, users), Metrics)
//
// Metrics sits next to the mux so r.Pattern is set when it reads it.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for _, wrap := range slices.Backward(middlewares) {
		h = wrap(h)
	}
	return h
}
