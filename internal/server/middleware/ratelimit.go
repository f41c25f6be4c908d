package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type userLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

type ipLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimitByIP applies per-IP rate limiting for unauthenticated endpoints
// (e.g. auth routes). Uses chi's RealIP middleware value via r.RemoteAddr.
// Stale entries are cleaned up every 10 minutes. The middleware lives for the
// whole process, so the cleanup goroutine is never stopped.
func RateLimitByIP(requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*ipLimiter)
	)

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			mu.Lock()
			cutoff := time.Now().Add(-30 * time.Minute)
			for ip, il := range limiters {
				if il.lastAccess.Before(cutoff) {
					delete(limiters, ip)
				}
			}
			mu.Unlock()
		}
	}()

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		il, ok := limiters[ip]
		if !ok {
			il = &ipLimiter{
				limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
				lastAccess: time.Now(),
			}
			limiters[ip] = il
		} else {
			il.lastAccess = time.Now()
		}
		return il.limiter
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lim := limiterFor(r.RemoteAddr)
			if !lim.Allow() {
				http.Error(w, `{"title":"Too Many Requests","status":429,"detail":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit applies per-user rate limiting on authenticated routes. Stale
// limiter entries are cleaned up every 10 minutes to prevent unbounded
// memory growth.
func RateLimit(requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	var (
		mu       sync.Mutex
		limiters = make(map[uuid.UUID]*userLimiter)
	)

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			mu.Lock()
			cutoff := time.Now().Add(-30 * time.Minute)
			for id, ul := range limiters {
				if ul.lastAccess.Before(cutoff) {
					delete(limiters, id)
				}
			}
			mu.Unlock()
		}
	}()

	limiterFor := func(userID uuid.UUID) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		ul, ok := limiters[userID]
		if !ok {
			ul = &userLimiter{
				limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
				lastAccess: time.Now(),
			}
			limiters[userID] = ul
		} else {
			ul.lastAccess = time.Now()
		}
		return ul.limiter
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				// No user in context; skip rate limiting.
				next.ServeHTTP(w, r)
				return
			}

			lim := limiterFor(userID)
			if !lim.Allow() {
				http.Error(w, `{"title":"Too Many Requests","status":429,"detail":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
