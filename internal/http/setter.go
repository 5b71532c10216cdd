package http

import (
	rl "github.com/iselbouch1/bouchauto-showcase/internal/http/rate_limiter"
	"go.uber.org/zap"
)

var (
	logger  = zap.NewNop()
	limiter *rl.VisitorLimiter
)

func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// SetRateLimiter enables per-client rate limiting. A nil limiter disables it.
func SetRateLimiter(v *rl.VisitorLimiter) {
	limiter = v
}
