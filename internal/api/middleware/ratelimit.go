package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/futig/ai-compass/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	inactiveVisitorTTL = time.Hour

	// addressShare scales the budget of one client address, which may be
	// shared by several visitors behind the same NAT.
	addressShare = 4
)

// bucket tracks rate limit state for a single key
type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// RateLimiter implements token bucket rate limiting per visitor and per client
// address. A request passes only when both buckets have a token, so dropping
// the visitor cookie does not buy a fresh budget.
type RateLimiter struct {
	limits     *cache.Cache
	mu         sync.Mutex
	maxTokens  float64 // Maximum tokens in a visitor bucket
	refillRate float64 // Tokens added per second to a visitor bucket
	now        func() time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerMinute on average with
// bursts of up to burst requests per visitor.
func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limits:     cache.New(inactiveVisitorTTL, 10*time.Minute),
		maxTokens:  float64(burst),
		refillRate: float64(requestsPerMinute) / 60.0,
		now:        time.Now,
	}
}

// Handler rejects requests of visitors or addresses that ran out of tokens
// with 429. Mount it after chi's RealIP so RemoteAddr is the client address.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retryAfter := rl.allow(VisitorID(r.Context()), clientAddress(r))
		if !ok {
			ctxzap.Warn(r.Context(), "rate limit exceeded",
				zap.String("remote_addr", r.RemoteAddr),
				zap.Duration("retry_after", retryAfter),
			)
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			response.Error(w, http.StatusTooManyRequests, "too many requests, please wait a moment")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allow takes a token from the visitor bucket and from the address bucket, or
// from neither. When refused it reports how long until both would pass.
func (rl *RateLimiter) allow(visitorID, address string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	type check struct {
		b          *bucket
		maxTokens  float64
		refillRate float64
	}
	var checks []check
	if visitorID != "" {
		checks = append(checks, check{rl.bucketFor("visitor:"+visitorID, rl.maxTokens, now), rl.maxTokens, rl.refillRate})
	}
	if address != "" {
		maxTokens := rl.maxTokens * addressShare
		checks = append(checks, check{rl.bucketFor("addr:"+address, maxTokens, now), maxTokens, rl.refillRate * addressShare})
	}

	var wait time.Duration
	for _, c := range checks {
		// Refill tokens based on elapsed time
		elapsed := now.Sub(c.b.lastRefill).Seconds()
		c.b.tokens = min(c.maxTokens, c.b.tokens+elapsed*c.refillRate)
		c.b.lastRefill = now

		if c.b.tokens >= 1.0 {
			continue
		}
		if c.refillRate <= 0 {
			wait = max(wait, inactiveVisitorTTL)
			continue
		}
		missing := 1.0 - c.b.tokens
		wait = max(wait, time.Duration(missing/c.refillRate*float64(time.Second)))
	}
	if wait > 0 {
		return false, wait
	}

	for _, c := range checks {
		c.b.tokens -= 1.0
	}
	return true, 0
}

// bucketFor returns the bucket of key, creating a full one on first use. Every
// use extends its lifetime. Callers hold rl.mu.
func (rl *RateLimiter) bucketFor(key string, maxTokens float64, now time.Time) *bucket {
	var b *bucket
	if v, found := rl.limits.Get(key); found {
		b = v.(*bucket)
	} else {
		b = &bucket{tokens: maxTokens, lastRefill: now}
	}
	rl.limits.SetDefault(key, b)
	return b
}

// clientAddress is the host part of RemoteAddr.
func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
