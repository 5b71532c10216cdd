// Package rate_limiter keeps one token bucket per client address.
package rate_limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultIdleTimeout = 5 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type VisitorLimiter struct {
	mu       sync.Mutex
	visitors map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	idle     time.Duration
}

// New allows rps requests per second per visitor with bursts of up to burst requests.
func New(rps float64, burst int) *VisitorLimiter {
	return &VisitorLimiter{
		visitors: make(map[string]*clientLimiter),
		limit:    rate.Limit(rps),
		burst:    burst,
		idle:     defaultIdleTimeout,
	}
}

func (v *VisitorLimiter) GetVisitor(ip string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	c, exists := v.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(v.limit, v.burst)
		v.visitors[ip] = &clientLimiter{limiter, time.Now()}
		return limiter
	}

	c.lastSeen = time.Now()
	return c.limiter
}

func (v *VisitorLimiter) Allow(ip string) bool {
	return v.GetVisitor(ip).Allow()
}

// Cleanup forgets visitors not seen since before the idle timeout and returns how many
// were removed.
func (v *VisitorLimiter) Cleanup(now time.Time) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	removed := 0
	for ip, c := range v.visitors {
		if now.Sub(c.lastSeen) > v.idle {
			delete(v.visitors, ip)
			removed++
		}
	}
	return removed
}

// StartVisitorCleanupLoop runs Cleanup every interval until ctx is done.
func (v *VisitorLimiter) StartVisitorCleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			v.Cleanup(now)
		}
	}
}

func (v *VisitorLimiter) CleanupAllVisitors() {
	v.mu.Lock()
	v.visitors = make(map[string]*clientLimiter)
	v.mu.Unlock()
}

func (v *VisitorLimiter) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.visitors)
}
