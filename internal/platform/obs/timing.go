package obs

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID stores id in ctx for later log correlation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Logger returns a log entry carrying the request id of ctx.
func Logger(ctx context.Context) *log.Entry {
	return log.WithField("req_id", RequestID(ctx))
}

// Time logs the duration of an operation. Use as
// `defer obs.Time(ctx, "op")(&err)`.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	entry := Logger(ctx).WithField("op", name)

	return func(errp *error) {
		entry = entry.WithField("dur_ms", time.Since(start).Milliseconds())

		if errp != nil && *errp != nil {
			entry.WithError(*errp).Warn("operation failed")
			return
		}
		entry.Debug("operation completed")
	}
}
