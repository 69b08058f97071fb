package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bskmt/backend/config"
	"github.com/bskmt/backend/pkg/crypto"
	"github.com/bskmt/backend/pkg/errorx"
	"github.com/bskmt/backend/pkg/router"
	"github.com/bskmt/backend/pkg/xcontext"
	"github.com/bskmt/backend/pkg/xredis"
	"github.com/puzpuzpuz/xsync"
)

// Limiter decides whether a request of the given token fits into the fixed
// window rule.
type Limiter interface {
	Allow(ctx context.Context, token string, rule config.RateLimitRule) (bool, error)
}

// RateLimit rejects requests over the rule limit. The scope separates the
// counters of different routes sharing one limiter. A limiter failure lets
// the request pass, an unavailable counter never locks everyone out.
func RateLimit(scope string, rule config.RateLimitRule, limiter Limiter) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := clientToken(ctx)
		allowed, err := limiter.Allow(ctx, scope+":"+token, rule)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot check the rate limit: %v", err)
			return ctx, nil
		}

		if !allowed {
			retryAfter := rule.Window - time.Duration(time.Now().UnixNano()%int64(rule.Window))
			return nil, errorx.New(errorx.TooManyRequests,
				"Too many requests, try again in %d seconds", int(retryAfter/time.Second)+1)
		}

		return ctx, nil
	}
}

// clientToken identifies the caller. An authenticated user is tracked by id,
// an anonymous one by ip and a fingerprint of stable headers.
func clientToken(ctx context.Context) string {
	if userID := xcontext.RequestUserID(ctx); userID != "" {
		return userID
	}

	req := xcontext.HTTPRequest(ctx)
	fingerprint := crypto.SHA256([]byte(
		req.Header.Get("User-Agent") + "|" + req.Header.Get("Accept-Language")))

	return clientIP(req) + ":" + fingerprint[:16]
}

func clientIP(req *http.Request) string {
	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}

	return host
}

type windowCounter struct {
	mutex  sync.Mutex
	window int64
	count  int
}

// MemoryLimiter counts per token in fixed windows. The map never tracks more
// than maxTokens tokens: once the ceiling is reached, counters of past
// windows are swept, and if nothing is stale a new token is rejected until a
// window rolls over.
type MemoryLimiter struct {
	counters  *xsync.MapOf[string, *windowCounter]
	maxTokens int

	// nowFunc is replaceable in tests.
	nowFunc func() time.Time
}

func NewMemoryLimiter(maxTokens int) *MemoryLimiter {
	return &MemoryLimiter{
		counters:  xsync.NewMapOf[*windowCounter](),
		maxTokens: maxTokens,
		nowFunc:   time.Now,
	}
}

func (l *MemoryLimiter) Allow(
	ctx context.Context, token string, rule config.RateLimitRule,
) (bool, error) {
	window := l.nowFunc().UnixNano() / int64(rule.Window)

	counter, ok := l.counters.Load(token)
	if !ok {
		if l.counters.Size() >= l.maxTokens {
			l.sweep(window)
		}

		// Nothing stale to free, the token is not tracked and not served.
		if l.counters.Size() >= l.maxTokens {
			return false, nil
		}

		counter, _ = l.counters.LoadOrStore(token, &windowCounter{})
	}

	counter.mutex.Lock()
	if counter.window != window {
		counter.window = window
		counter.count = 0
	}
	counter.count++
	allowed := counter.count <= rule.Limit
	counter.mutex.Unlock()

	return allowed, nil
}

func (l *MemoryLimiter) sweep(currentWindow int64) {
	l.counters.Range(func(key string, counter *windowCounter) bool {
		counter.mutex.Lock()
		stale := counter.window != currentWindow
		counter.mutex.Unlock()

		if stale {
			l.counters.Delete(key)
		}

		return true
	})
}

// RedisLimiter shares the window counters between instances.
type RedisLimiter struct {
	redisClient xredis.Client
}

func NewRedisLimiter(redisClient xredis.Client) *RedisLimiter {
	return &RedisLimiter{redisClient: redisClient}
}

func (l *RedisLimiter) Allow(
	ctx context.Context, token string, rule config.RateLimitRule,
) (bool, error) {
	window := time.Now().UnixNano() / int64(rule.Window)
	key := fmt.Sprintf("ratelimit:%s:%d", token, window)

	count, err := l.redisClient.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := l.redisClient.Expire(ctx, key, rule.Window); err != nil {
			return false, err
		}
	}

	return count <= int64(rule.Limit), nil
}
