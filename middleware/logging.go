package middleware

import (
	"context"
	"time"

	mediator "github.com/gragra33/blazing-mediator"
)

// Logging creates a request middleware that logs before and after handler
// execution.
func Logging(logger mediator.Logger) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		name := mediator.TypeName(request)
		logger.Log(mediator.LevelDebug, "handling request", map[string]any{"request": name})

		start := time.Now()
		response, err := next(ctx, request)

		logger.Log(mediator.LevelDebug, "handled request", map[string]any{
			"request": name,
			"elapsed": time.Since(start).String(),
			"success": err == nil,
		})
		return response, err
	}
}

// NotificationLogging creates a notification middleware that logs around
// the fan-out.
func NotificationLogging(logger mediator.Logger) mediator.NotificationMiddleware {
	return func(ctx context.Context, notification mediator.Notification, next mediator.NotificationHandlerChain) error {
		name := mediator.TypeName(notification)
		logger.Log(mediator.LevelDebug, "publishing notification", map[string]any{"notification": name})

		start := time.Now()
		err := next(ctx, notification)

		logger.Log(mediator.LevelDebug, "published notification", map[string]any{
			"notification": name,
			"elapsed":      time.Since(start).String(),
			"success":      err == nil,
		})
		return err
	}
}
