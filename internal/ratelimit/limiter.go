package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Limiter applies a fixed-window request budget per key.
type Limiter struct {
	L *limiter.Limiter
}

// NewStore returns a Redis-backed store when a client is configured, and an
// in-process store otherwise.
func NewStore(rdb *redis.Client, prefix string) (limiter.Store, error) {
	opts := limiter.StoreOptions{Prefix: prefix, CleanUpInterval: limiter.DefaultCleanUpInterval}
	if rdb == nil {
		return memory.NewStoreWithOptions(opts), nil
	}
	return limiterredis.NewStoreWithOptions(rdb, opts)
}

// New builds a limiter allowing max requests per window.
func New(store limiter.Store, max int, window time.Duration) Limiter {
	return Limiter{L: limiter.New(store, limiter.Rate{Period: window, Limit: int64(max)})}
}

// Allow registers an event for the given key and returns whether it is within the limit.
func (l Limiter) Allow(ctx context.Context, key string) (allowed bool, limit, remaining int, reset time.Time, err error) {
	if l.L == nil || l.L.Rate.Limit <= 0 {
		return true, 0, 0, time.Now(), nil
	}
	res, err := l.L.Get(ctx, key)
	if err != nil {
		return false, 0, 0, time.Now(), err
	}
	return !res.Reached, int(res.Limit), int(res.Remaining), time.Unix(res.Reset, 0), nil
}

// KeyByClientIP keys requests by the caller address, honouring proxy headers.
func KeyByClientIP(r *http.Request) string {
	return "ip:" + ClientIP(r)
}

// ClientIP extracts the best-effort client IP from proxy headers or RemoteAddr.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); ip != "" {
		if first := strings.TrimSpace(strings.Split(ip, ",")[0]); first != "" {
			return first
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
