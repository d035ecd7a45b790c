package httpx

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/teamauth/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig is a token bucket refilled at RequestsPerWindow/Window.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

// Common profiles. Endpoint specific limits are built by the router.
var (
	StrictLimit   = RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}
	ModerateLimit = RateLimitConfig{RequestsPerWindow: 20, Window: time.Minute, Burst: 20}
	LenientLimit  = RateLimitConfig{RequestsPerWindow: 100, Window: time.Minute, Burst: 100}
	PublicLimit   = RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}
)

// PerHour allows n requests per hour, all available as a burst.
func PerHour(n int) RateLimitConfig {
	return RateLimitConfig{RequestsPerWindow: n, Window: time.Hour, Burst: n}
}

// Limiter decides whether the request identified by key may proceed. The
// in-memory implementation suits a single instance; deployments with
// several replicas plug in a shared store.
type Limiter interface {
	Allow(key string) (ok bool, retryAfter time.Duration)
}

// KeyExtractor groups requests for rate limiting.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor prefers X-Forwarded-For, then X-Real-IP, then RemoteAddr.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// UserIDKeyExtractor returns the authenticated subject, if any.
func UserIDKeyExtractor(r *http.Request) string {
	id, _ := UserIDFromContext(r.Context())
	return id
}

// CompositeKeyExtractor joins the non-empty keys of each extractor.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		var parts []string
		for _, extract := range extractors {
			if key := extract(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

// MemoryLimiter keeps one x/time/rate bucket per key.
type MemoryLimiter struct {
	limit rate.Limit
	burst int

	mu          sync.Mutex
	buckets     map[string]*rate.Limiter
	lastCleanup time.Time
}

func NewMemoryLimiter(cfg RateLimitConfig) *MemoryLimiter {
	return &MemoryLimiter{
		limit:       rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		burst:       cfg.Burst,
		buckets:     make(map[string]*rate.Limiter),
		lastCleanup: time.Now(),
	}
}

func (m *MemoryLimiter) Allow(key string) (bool, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cleanupLocked()

	b, ok := m.buckets[key]
	if !ok {
		b = rate.NewLimiter(m.limit, m.burst)
		m.buckets[key] = b
	}

	if b.Allow() {
		return true, 0
	}

	res := b.Reserve()
	delay := res.Delay()
	res.Cancel()
	return false, delay
}

// cleanupLocked drops idle buckets (full token count) every five minutes.
func (m *MemoryLimiter) cleanupLocked() {
	if time.Since(m.lastCleanup) < 5*time.Minute {
		return
	}
	m.lastCleanup = time.Now()

	for key, b := range m.buckets {
		if b.Tokens() >= float64(m.burst) {
			delete(m.buckets, key)
		}
	}
}

// Unlimited never throttles.
type Unlimited struct{}

func (Unlimited) Allow(string) (bool, time.Duration) { return true, 0 }

// RateLimit rejects requests with 429 once limiter refuses their key.
func RateLimit(limiter Limiter, cfg RateLimitConfig, keyFn KeyExtractor) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := keyFn(r)
			if key == "" {
				log.Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			ok, delay := limiter.Allow(key)
			if !ok {
				retryAfter := max(int(delay.Seconds()), 1)

				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))
				w.Header().Set("X-RateLimit-Window", cfg.Window.String())

				log.Warn("rate limit exceeded",
					slog.String("key", key),
					slog.Int("retry_after", retryAfter),
				)
				WriteError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// LimiterFactory builds one Limiter per route so buckets are not shared
// across endpoints.
type LimiterFactory func(RateLimitConfig) Limiter

// MemoryLimiters is the default LimiterFactory.
func MemoryLimiters(cfg RateLimitConfig) Limiter { return NewMemoryLimiter(cfg) }

// NoLimits disables throttling, for tests and trusted deployments.
func NoLimits(RateLimitConfig) Limiter { return Unlimited{} }

// ByIP limits per client address.
func ByIP(f LimiterFactory, cfg RateLimitConfig) Middleware {
	return RateLimit(f(cfg), cfg, IPKeyExtractor)
}

// ByUser limits per authenticated subject, falling back to the address.
func ByUser(f LimiterFactory, cfg RateLimitConfig) Middleware {
	return RateLimit(f(cfg), cfg, CompositeKeyExtractor(":", UserIDKeyExtractor, IPKeyExtractor))
}
