package handlers

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khalfanathman/portfolio-api/internal/access"
)

// RateLimit configures a fixed-window limiter backed by Redis.
type RateLimit struct {
	Limit  int
	Window time.Duration
	Block  time.Duration
	Prefix string
}

// RateLimiter counts requests per principal, or per client IP for anonymous
// callers. A client that exceeds Limit within Window is refused for Block.
// Redis errors let the request through.
func RateLimiter(rdb *redis.Client, cfg RateLimit, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rdb == nil || cfg.Limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := cfg.Prefix + ":" + clientID(r)
			blockKey := key + ":blocked"

			if blocked, _ := rdb.Get(ctx, blockKey).Result(); blocked == "1" {
				ttl, _ := rdb.TTL(ctx, blockKey).Result()
				w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))
				writeError(w, http.StatusTooManyRequests, "Request was throttled. Expected available in "+strconv.Itoa(int(ttl.Seconds()))+" seconds.")
				return
			}

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				logger.Warn("rate limiter unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				rdb.Expire(ctx, key, cfg.Window)
			}

			if count > int64(cfg.Limit) {
				rdb.Set(ctx, blockKey, "1", cfg.Block)
				w.Header().Set("Retry-After", strconv.Itoa(int(cfg.Block.Seconds())))
				writeError(w, http.StatusTooManyRequests, "Request was throttled. Expected available in "+strconv.Itoa(int(cfg.Block.Seconds()))+" seconds.")
				return
			}

			ttl, _ := rdb.TTL(ctx, key).Result()
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(cfg.Limit-int(count)))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(ttl.Seconds())))

			next.ServeHTTP(w, r)
		})
	}
}

// clientID expects middleware.RealIP to have normalised RemoteAddr.
func clientID(r *http.Request) string {
	if id, ok := access.FromContext(r.Context()).UserID(); ok {
		return "uid:" + strconv.Itoa(id)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
