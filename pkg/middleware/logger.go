package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// ProcessTimeHeader carries the handler's elapsed time in seconds.
const ProcessTimeHeader = "X-Process-Time"

type responseRecorder struct {
	http.ResponseWriter
	start       time.Time
	status      int
	wroteHeader bool
}

func (r *responseRecorder) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.status = status
	elapsed := time.Since(r.start).Seconds()
	r.Header().Set(ProcessTimeHeader, strconv.FormatFloat(elapsed, 'f', 6, 64))
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Logger logs each request with its method, URI, status, and duration, and
// stamps the response with ProcessTimeHeader before the headers are sent.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &responseRecorder{
				ResponseWriter: w,
				start:          time.Now(),
				status:         http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			if !rec.wroteHeader {
				rec.WriteHeader(http.StatusOK)
			}

			logger.Info("request",
				"method", r.Method,
				"uri", r.URL.RequestURI(),
				"addr", r.RemoteAddr,
				"status", rec.status,
				"duration", time.Since(rec.start),
			)
		})
	}
}
