package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/storefront-client/internal/activity"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type ctxKeyLog struct{}

type responseRecorder struct {
	b      int
	status int
	w      http.ResponseWriter
}

func (r *responseRecorder) Header() http.Header { return r.w.Header() }

func (r *responseRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.w.Write(p)
	r.b += n
	return n, err
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.w.WriteHeader(statusCode)
}

// requestLogger puts a request-scoped logger in the context and logs one
// line per request. It also tags emitted activity with the request id.
func requestLogger(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := middleware.GetReqID(r.Context())
			start := time.Now()
			rr := &responseRecorder{w: w}
			entry := log.WithFields(logrus.Fields{
				"http.req.path":   r.URL.Path,
				"http.req.method": r.Method,
				"http.req.id":     requestID,
			})
			entry.Debug("request started")
			defer func() {
				entry.WithFields(logrus.Fields{
					"http.resp.took_ms": int64(time.Since(start) / time.Millisecond),
					"http.resp.status":  rr.status,
					"http.resp.bytes":   rr.b,
				}).Info("request complete")
			}()

			ctx := context.WithValue(r.Context(), ctxKeyLog{}, logrus.FieldLogger(entry))
			ctx = activity.WithCorrelation(ctx, requestID)
			next.ServeHTTP(rr, r.WithContext(ctx))
		})
	}
}

var fallbackLog = logrus.StandardLogger()

func logger(r *http.Request) logrus.FieldLogger {
	if l, ok := r.Context().Value(ctxKeyLog{}).(logrus.FieldLogger); ok {
		return l
	}
	return fallbackLog
}
