package http

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/iselbouch1/bouchauto-showcase/internal/auth"
	"go.uber.org/zap"
)

type contextKey string

const (
	userIDKey = contextKey("user_id")
	roleKey   = contextKey("role")
)

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := auth.TokenClaims(r.Header.Get("Authorization"))
		if err != nil {
			http.Error(w, "missing or invalid token", http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		if sub, ok := claims["sub"].(float64); ok {
			ctx = context.WithValue(ctx, userIDKey, int(sub))
		}
		if role, ok := claims["role"].(string); ok {
			ctx = context.WithValue(ctx, roleKey, role)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetRole(r) != role {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetUserID(r *http.Request) int {
	if val, ok := r.Context().Value(userIDKey).(int); ok {
		return val
	}
	return 0
}

func GetRole(r *http.Request) string {
	if val, ok := r.Context().Value(roleKey).(string); ok {
		return val
	}
	return ""
}

// RateLimitMiddleware answers 429 once a client address exhausts its bucket.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limiter != nil && !limiter.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP expects RealIP to have already rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("remote", r.RemoteAddr))
	})
}
