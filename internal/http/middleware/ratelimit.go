package middleware

import (
	"net/http"
	"sync"
	"time"
)

// MessageLimiter caps how fast a single caller can drive a conversation.
// Token bucket per client IP: a patient typing normally never hits it, a
// scripted client does.
type MessageLimiter struct {
	mu      sync.Mutex
	callers map[string]*bucket
	rate    float64 // tokens per second
	burst   int     // max tokens
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// NewMessageLimiter creates a limiter allowing rate messages/sec with the
// given burst size per caller.
func NewMessageLimiter(rate float64, burst int) *MessageLimiter {
	ml := &MessageLimiter{
		callers: make(map[string]*bucket),
		rate:    rate,
		burst:   burst,
	}
	// Periodically evict stale callers to prevent memory growth.
	go ml.cleanup()
	return ml
}

// Allow reports whether the caller may send another message now.
func (ml *MessageLimiter) Allow(ip string) bool {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := time.Now()
	b, ok := ml.callers[ip]
	if !ok {
		b = &bucket{tokens: float64(ml.burst), lastSeen: now}
		ml.callers[ip] = b
	}

	elapsed := now.Sub(b.lastSeen).Seconds()
	b.tokens += elapsed * ml.rate
	if b.tokens > float64(ml.burst) {
		b.tokens = float64(ml.burst)
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (ml *MessageLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		ml.mu.Lock()
		cutoff := time.Now().Add(-10 * time.Minute)
		for ip, b := range ml.callers {
			if b.lastSeen.Before(cutoff) {
				delete(ml.callers, ip)
			}
		}
		ml.mu.Unlock()
	}
}

// MessageRateLimit returns an HTTP middleware for the conversation routes
// that rejects callers exceeding the message rate with 429 Too Many Requests.
func MessageRateLimit(rate float64, burst int) func(http.Handler) http.Handler {
	limiter := NewMessageLimiter(rate, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			// Prefer X-Real-Ip set by chi's RealIP middleware.
			if xri := r.Header.Get("X-Real-Ip"); xri != "" {
				ip = xri
			}
			if !limiter.Allow(ip) {
				http.Error(w, "message rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
