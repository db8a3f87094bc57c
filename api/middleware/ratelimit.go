package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
	"woodzire_server/api/health"

	"github.com/MonkyMars/gecho"
)

type rateRule struct {
	group  string
	limit  int
	window time.Duration
}

// ruleForEndpoint determines which rate limit to apply based on config
func (mw *Middleware) ruleForEndpoint(path, method string) rateRule {
	rl := mw.cfg.RateLimit

	// Auth endpoints - strictest limits
	if strings.HasPrefix(path, "/auth/login") ||
		strings.HasPrefix(path, "/auth/register") ||
		strings.HasPrefix(path, "/auth/refresh") {
		return rateRule{"auth", rl.AuthLimit, rl.AuthWindow}
	}

	if method == http.MethodPost && (path == "/orders" ||
		strings.HasPrefix(path, "/checkout") ||
		strings.HasPrefix(path, "/gift-cards/validate")) {
		return rateRule{"checkout", rl.CheckoutLimit, rl.CheckoutWindow}
	}

	if strings.HasPrefix(path, "/admin") || strings.HasPrefix(path, "/functions") {
		return rateRule{"admin", rl.AdminLimit, rl.AdminWindow}
	}

	// Expensive read operations
	if method == http.MethodGet && (strings.HasPrefix(path, "/products") ||
		strings.HasPrefix(path, "/orders/track")) {
		return rateRule{"expensive", rl.ExpensiveLimit, rl.ExpensiveWindow}
	}

	return rateRule{"general", rl.GeneralLimit, rl.GeneralWindow}
}

// clientIP prefers RemoteAddr as rewritten by chi's RealIP middleware.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateLimitMiddleware applies a fixed window per client IP and endpoint
// group. Cache failures let the request through.
func (mw *Middleware) RateLimitMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mw.cfg.RateLimit.Enabled || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			// Skip rate limiting for probes and scraping
			if r.URL.Path == "/" || r.URL.Path == "/metrics" || strings.HasPrefix(r.URL.Path, "/health") {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			rule := mw.ruleForEndpoint(r.URL.Path, r.Method)

			count, ttl, err := mw.limiter.IncrementRateLimit(r.Context(), ip, rule.group, rule.window)
			if err != nil {
				mw.logger.Warn("Rate limit cache error, allowing request",
					gecho.Field("error", err),
					gecho.Field("ip", ip),
					gecho.Field("group", rule.group),
				)
				next.ServeHTTP(w, r)
				return
			}
			if ttl <= 0 {
				ttl = rule.window
			}

			reset := mw.now().Add(ttl).Unix()
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rule.limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, rule.limit-count)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))

			if count > rule.limit {
				retryAfter := int(ttl.Seconds())
				mw.logger.Warn("Rate limit exceeded",
					gecho.Field("ip", ip),
					gecho.Field("group", rule.group),
					gecho.Field("count", count),
					gecho.Field("limit", rule.limit),
				)
				health.RateLimited.WithLabelValues(rule.group).Inc()

				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				gecho.TooManyRequests(w,
					gecho.WithMessage("error.rateLimit.exceeded"),
					gecho.WithData(map[string]any{
						"limit":       rule.limit,
						"window":      rule.window.String(),
						"retry_after": retryAfter,
					}),
					gecho.Send(),
				)
				return
			}

			// Log if getting close to limit (80% threshold)
			if count > rule.limit*4/5 {
				mw.logger.Debug("Rate limit warning",
					gecho.Field("ip", ip),
					gecho.Field("group", rule.group),
					gecho.Field("count", count),
					gecho.Field("limit", rule.limit),
				)
			}

			next.ServeHTTP(w, r)
		})
	}
}
