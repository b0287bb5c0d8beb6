package server

import (
	"net/http"
	"sync"
	"time"
)

// RateLimiter counts requests per client IP over a fixed window.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*windowCount
	limit   int
	window  time.Duration
}

type windowCount struct {
	count     int
	windowEnd time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*windowCount),
		limit:   limit,
		window:  window,
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.window * 2)
	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, wc := range rl.clients {
			if now.After(wc.windowEnd) {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	wc, exists := rl.clients[ip]
	if !exists || now.After(wc.windowEnd) {
		rl.clients[ip] = &windowCount{count: 1, windowEnd: now.Add(rl.window)}
		return true
	}

	if wc.count >= rl.limit {
		return false
	}
	wc.count++
	return true
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			jsonError(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// NewAuthRateLimiter limits login attempts.
func NewAuthRateLimiter() *RateLimiter {
	return NewRateLimiter(5, time.Minute)
}

// NewAPIRateLimiter limits general API traffic.
func NewAPIRateLimiter() *RateLimiter {
	return NewRateLimiter(100, time.Minute)
}
