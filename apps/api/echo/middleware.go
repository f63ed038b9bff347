package echoapi

import (
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Otsikow/bridge-study-global-sub004/services/metrics"
)

// observe records request metrics and writes one access log entry per request.
func observe(logger *zap.Logger, disableLogs bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			if err := next(ctx); err != nil {
				ctx.Error(err) // commits the response so the final status is known
			}
			elapsed := time.Since(start)

			req := ctx.Request()
			res := ctx.Response()
			path := ctx.Path()
			if path == "" {
				path = "unmatched"
			}
			metrics.ObserveHTTP(req.Method, path, res.Status, elapsed)

			if !disableLogs {
				logger.Info("request",
					zap.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
					zap.String("method", req.Method),
					zap.String("uri", req.RequestURI),
					zap.Int("status", res.Status),
					zap.Duration("latency", elapsed),
					zap.String("remote_ip", ctx.RealIP()),
					zap.Int64("bytes_out", res.Size),
				)
			}
			return nil
		}
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorLimiter hands out one token bucket per client IP.
type visitorLimiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

func newVisitorLimiter(limit rate.Limit, burst int) *visitorLimiter {
	if burst < 1 {
		burst = 1
	}
	return &visitorLimiter{
		limit:     limit,
		burst:     burst,
		ttl:       10 * time.Minute,
		visitors:  make(map[string]*visitor),
		lastSweep: time.Now(),
	}
}

func (l *visitorLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > l.ttl {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > l.ttl {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func rateLimitMiddleware(l *visitorLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !l.Allow(ctx.RealIP()) {
				ctx.Response().Header().Set("Retry-After", strconv.Itoa(l.retryAfter()))
				return errTooManyRequests
			}
			return next(ctx)
		}
	}
}

// retryAfter is the number of seconds until one more token is available.
func (l *visitorLimiter) retryAfter() int {
	if l.limit <= 0 {
		return 60
	}
	secs := int(1/float64(l.limit)) + 1
	return secs
}
