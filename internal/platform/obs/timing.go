package obs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// RequestID returns the request id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time starts timing the operation name. The returned func logs the duration
// and the error in *errp (if any) and reports the elapsed time. Use it with a
// named error return:
//
//	defer obs.Time(ctx, logger, "optimize_routes")(&err)
func Time(ctx context.Context, logger *zap.Logger, name string) func(errp *error) time.Duration {
	start := time.Now()
	reqID := RequestID(ctx)

	return func(errp *error) time.Duration {
		dur := time.Since(start)
		fields := []zap.Field{
			zap.String("req_id", reqID),
			zap.String("op", name),
			zap.Int64("dur_ms", dur.Milliseconds()),
		}

		if errp != nil && *errp != nil {
			logger.Warn("operation failed", append(fields, zap.Error(*errp))...)
			return dur
		}
		logger.Info("operation done", fields...)
		return dur
	}
}
