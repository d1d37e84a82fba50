package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pulseboard/backend/internal/api"
	"github.com/pulseboard/backend/internal/apperr"
)

const rateLimitWindow = time.Minute

// RateLimitClient is the subset of redis commands the limiter needs.
// *redis.Client satisfies it.
type RateLimitClient interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	ExpireNX(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RateLimit throttles a route with a fixed window counter in Redis, keyed by
// client IP. A nil client disables throttling; Redis errors fail open.
func RateLimit(rdb RateLimitClient, name string, limit int, respond *api.Responder, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rdb == nil || limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if host, _, err := net.SplitHostPort(ip); err == nil {
				ip = host
			}
			key := fmt.Sprintf("ratelimit:%s:%s", name, ip)

			count, err := rdb.Incr(r.Context(), key).Result()
			if err != nil {
				log.Warn().Err(err).Msg("rate limit check failed, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			// NX keeps the window fixed while retrying on every request, so
			// the counter picks up a TTL even when an earlier attempt to set
			// one was lost mid-flight.
			if err := rdb.ExpireNX(r.Context(), key, rateLimitWindow).Err(); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limit expiry not set")
			}

			if count > int64(limit) {
				respond.Err(w, apperr.TooManyRequests("Too many requests, please try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
