package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"roomly/pkg/logger"
)

type UserExtractor func(r *http.Request) string

// DefaultUserExtractor reads the caller identity the gateway forwards.
func DefaultUserExtractor(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

type userLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// UserRateLimiter keeps one token bucket per user id. Entries idle for an
// hour are dropped by the cleanup loop.
type UserRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*userLimiter
	limit     rate.Limit
	burst     int
	extractor UserExtractor
	log       *logger.Logger
	stopCh    chan struct{}
}

func NewUserRateLimiter(perMinute, burst int, extractor UserExtractor, log *logger.Logger) *UserRateLimiter {
	if extractor == nil {
		extractor = DefaultUserExtractor
	}

	rl := &UserRateLimiter{
		limiters:  make(map[string]*userLimiter),
		limit:     rate.Limit(float64(perMinute) / 60.0),
		burst:     burst,
		extractor: extractor,
		log:       log,
		stopCh:    make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

func (rl *UserRateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for userID, ul := range rl.limiters {
				if time.Since(ul.lastAccess) > time.Hour {
					delete(rl.limiters, userID)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *UserRateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *UserRateLimiter) Allow(userID string) bool {
	if userID == "" {
		return true
	}

	rl.mu.Lock()
	ul, ok := rl.limiters[userID]
	if !ok {
		ul = &userLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[userID] = ul
	}
	ul.lastAccess = time.Now()
	rl.mu.Unlock()

	return ul.limiter.Allow()
}

func UserRateLimit(limiter *UserRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := limiter.extractor(r)

			if !limiter.Allow(userID) {
				limiter.log.Warn("Rate limit exceeded",
					"request_id", RequestID(r.Context()),
					"user_id", userID,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Too many requests"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
