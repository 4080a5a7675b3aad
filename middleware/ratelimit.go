package middleware

import (
	"context"

	"golang.org/x/time/rate"

	mediator "github.com/gragra33/blazing-mediator"
)

// RateLimit creates a request middleware that blocks until the limiter
// grants a token, respecting context cancellation while waiting. Combine
// with AppliesTo to throttle only a subset of request types.
func RateLimit(limiter *rate.Limiter) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return next(ctx, request)
	}
}
