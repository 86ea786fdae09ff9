package middleware

import (
	"log/slog"
	"time"

	"github.com/vango-dev/routekit/pkg/location"
)

// Logging creates middleware that logs each navigation at info level, or
// at warn level when it fails. A nil logger uses slog.Default().
func Logging(logger *slog.Logger) location.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return location.MiddlewareFunc(func(nav *location.Navigation, next func() error) error {
		start := time.Now()
		err := next()

		attrs := []any{
			"method", nav.Method,
			"from", nav.From,
			"duration", time.Since(start),
		}
		if nav.Method == location.MethodTraverse {
			attrs = append(attrs, "delta", nav.Delta)
		} else {
			attrs = append(attrs, "to", nav.To)
		}
		if err != nil {
			logger.Warn("navigation failed", append(attrs, "error", err)...)
			return err
		}
		logger.Info("navigation", attrs...)
		return nil
	})
}
