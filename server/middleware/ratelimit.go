package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/kbukum/startup-analyzer/errors"
	"github.com/kbukum/startup-analyzer/resilience"
)

const maxClients = 10000

// RateLimitConfig configures per-client rate limiting.
type RateLimitConfig struct {
	// RequestsPerMinute is the sustained rate allowed per client. 0 disables limiting.
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	// Burst is the number of requests a client may make back to back.
	Burst int `yaml:"burst" mapstructure:"burst"`
	// KeyFunc extracts the client key from a request. Defaults to ClientIP.
	KeyFunc func(*http.Request) string `yaml:"-" mapstructure:"-"`
}

// Enabled reports whether limiting is configured.
func (c RateLimitConfig) Enabled() bool { return c.RequestsPerMinute > 0 }

// RateLimit returns middleware that gives every client its own token bucket
// and answers RATE_LIMITED (429) once it is empty. Buckets idle for ten
// minutes start over full.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = ClientIP
	}
	limiter := resilience.RateLimiterConfig{
		Rate:  float64(cfg.RequestsPerMinute) / 60,
		Burst: max(cfg.Burst, 1),
	}
	buckets := ttlcache.New[string, *resilience.RateLimiter](
		ttlcache.WithTTL[string, *resilience.RateLimiter](10*time.Minute),
		ttlcache.WithCapacity[string, *resilience.RateLimiter](maxClients),
	)

	return func(next http.Handler) http.Handler {
		if !cfg.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := cfg.KeyFunc(r)
			item, _ := buckets.GetOrSet(key, resilience.NewRateLimiter(limiter))
			if !item.Value().Allow() {
				WriteError(w, errors.RateLimited())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the first X-Forwarded-For address or the remote host.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
