package ratelimit

import (
	"fmt"
	"net/http"

	limiter "github.com/ulule/limiter/v3"
	stdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
)

// Middleware builds an in-memory rate limiting middleware from a formatted
// rate such as "300-M" (300 requests per minute) or "10-S".
func Middleware(formatted string, trustForwardHeader bool) (func(http.Handler) http.Handler, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("ratelimit: parse rate %q: %w", formatted, err)
	}
	instance := limiter.New(
		memory.NewStore(),
		rate,
		limiter.WithTrustForwardHeader(trustForwardHeader),
	)
	mw := stdlib.NewMiddleware(instance)
	return mw.Handler, nil
}
