package handlers

import (
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"planexport/config"
	"planexport/services"
)

// NewRouter wires the export routes behind request logging and, when a rate
// is configured, a shared token bucket.
func NewRouter(exporter *services.Exporter, cfg config.ServerConfig) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /formats", HandleFormats(exporter))
	mux.HandleFunc("POST /exports/{format}", HandleExport(exporter, cfg.MaxBodyBytes))

	var h http.Handler = mux
	if cfg.RequestsPerSecond > 0 {
		burst := max(cfg.Burst, 1)
		h = RateLimitMiddleware(rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst), h)
	}
	return LoggingMiddleware(h)
}

// RateLimitMiddleware rejects requests with 429 once the limiter runs dry.
func RateLimitMiddleware(limiter *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := limiter.Reserve()
		if !res.OK() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		if delay := res.Delay(); delay > 0 {
			res.Cancel()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs one line per request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("http: %s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}
