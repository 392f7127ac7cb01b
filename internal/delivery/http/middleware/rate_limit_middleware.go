package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"go-appointment-booking/pkg/response"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

type RateLimiterConfig struct {
	Rate  rate.Limit
	Burst int
}

// PerMinute converts a requests-per-minute budget into a rate.Limit
func PerMinute(n int) rate.Limit {
	if n <= 0 {
		return rate.Inf
	}
	return rate.Every(time.Minute / time.Duration(n))
}

// RateLimiter keeps one token bucket per authenticated user, falling back to the
// client host for anonymous requests. Buckets idle long enough to have refilled
// are evicted.
type RateLimiter struct {
	config   RateLimiterConfig
	idle     time.Duration
	mu       sync.Mutex
	limiters *cache.Cache
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	idle := refillTime(config)
	if idle < time.Minute {
		idle = time.Minute
	}
	return &RateLimiter{
		config:   config,
		idle:     idle,
		limiters: cache.New(idle, 2*idle),
	}
}

// refillTime is how long an empty bucket takes to fill up again
func refillTime(config RateLimiterConfig) time.Duration {
	if config.Rate == rate.Inf || config.Rate <= 0 {
		return 0
	}
	refill := time.Duration(float64(config.Burst) / float64(config.Rate) * float64(time.Second))
	return refill.Round(time.Second)
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	var limiter *rate.Limiter
	if cached, found := rl.limiters.Get(key); found {
		limiter = cached.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(rl.config.Rate, rl.config.Burst)
	}
	// every use pushes the expiry back
	rl.limiters.Set(key, limiter, rl.idle)
	return limiter
}

func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientHost(r)
		if principal, ok := PrincipalFromContext(r.Context()); ok {
			key = principal.UserID.String()
		}

		if !rl.limiterFor(key).Allow() {
			response.TooManyRequests(w, "Rate limit exceeded, please slow down")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
