package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"domisafe/internal/handlers"
	"domisafe/internal/models"
)

// rateCounter counts hits per key within a fixed window.
type rateCounter interface {
	IncrWithExpire(ctx context.Context, namespace, key string, window time.Duration) (int64, error)
}

const rateLimitWindow = time.Minute

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Frame-Options", "deny")
		next.ServeHTTP(w, r)
	})
}

func makeResponseJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		next.ServeHTTP(w, r)
		app.logger.Infow("request",
			"remote", r.RemoteAddr,
			"proto", r.Proto,
			"method", r.Method,
			"uri", r.URL.RequestURI(),
			"duration", time.Since(started),
		)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// rateLimit caps requests per client IP per minute. Counter failures let the
// request through.
func (app *application) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.limiter == nil || app.rateLimitPerMinute <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		cnt, err := app.limiter.IncrWithExpire(r.Context(), "ratelimit", clientIP(r, app.trustForwardedFor), rateLimitWindow)
		if err != nil {
			app.logger.Errorf("rate limit counter: %v", err)
			next.ServeHTTP(w, r)
			return
		}
		if cnt > int64(app.rateLimitPerMinute) {
			w.Header().Set("Retry-After", strconv.Itoa(int(rateLimitWindow.Seconds())))
			app.clientError(w, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP keys the limiter. X-Forwarded-For is honoured only when the
// deployment says a proxy sets it.
func clientIP(r *http.Request, trustForwardedFor bool) string {
	if fwd := r.Header.Get("X-Forwarded-For"); trustForwardedFor && fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (app *application) JWTMiddleware(next http.Handler, requiredRole string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			app.errorMessage(w, http.StatusUnauthorized, "Authorization header missing or invalid")
			return
		}
		accessToken := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := app.tokens.Parse(accessToken)
		if err != nil {
			app.errorMessage(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		switch requiredRole {
		case models.RoleAdmin:
			if claims.Role != models.RoleAdmin {
				app.errorMessage(w, http.StatusForbidden, "Forbidden: only admins allowed")
				return
			}
		case models.RoleWorker:
			if claims.Role != models.RoleWorker && claims.Role != models.RoleAdmin {
				app.errorMessage(w, http.StatusForbidden, "Forbidden: only workers or admins allowed")
				return
			}
		case models.RoleClient:
			if claims.Role != models.RoleClient && claims.Role != models.RoleAdmin {
				app.errorMessage(w, http.StatusForbidden, "Forbidden: only clients or admins allowed")
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(handlers.WithClaims(r.Context(), claims)))
	})
}
