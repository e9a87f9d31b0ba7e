package middleware

import (
	"log/slog"
	"net/http"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain composes mws; the first runs outermost. Nil entries are skipped.
func Chain(mws ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			if mws[i] != nil {
				final = mws[i](final)
			}
		}
		return final
	}
}

// Authenticated rejects requests without a valid bearer token and logs the
// rest with the resolved user. Rejected requests are not logged.
func Authenticated(validator tokenValidator, logger *slog.Logger) Middleware {
	return Chain(Auth(validator), Logger(logger))
}
