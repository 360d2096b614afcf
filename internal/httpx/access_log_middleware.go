package httpx

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// statusRecorder remembers what the handler sent so it can be logged.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
	sent   bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.sent {
		return
	}
	sr.status = code
	sr.sent = true
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.sent {
		sr.WriteHeader(http.StatusOK)
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// AccessLogMiddleware logs one line per request. Server errors are logged at
// error level and rejected requests at warn level.
func AccessLogMiddleware(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sr, r)

			level := zapcore.InfoLevel
			switch {
			case sr.status >= 500:
				level = zapcore.ErrorLevel
			case sr.status >= 400:
				level = zapcore.WarnLevel
			}
			if ce := log.Check(level, "access"); ce != nil {
				ce.Write(
					zap.String("request_id", RequestIDFrom(r)),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("query", r.URL.RawQuery),
					zap.Int("status", sr.status),
					zap.Int64("bytes", sr.bytes),
					zap.Duration("duration", time.Since(start)),
				)
			}
		})
	}
}
