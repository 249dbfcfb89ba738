package interceptor

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"realm/api/codes"
)

// limiterIdleTTL 超过这个时间没有请求的令牌桶会被清理
const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// Limiter 每个用户一个令牌桶，用于限制建造、升级这类写操作
type Limiter struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	every     rate.Limit
	burst     int
	idle      time.Duration
	lastPrune time.Time
	now       func() time.Time
}

func NewLimiter(perMinute float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	lim := rate.Inf
	idle := limiterIdleTTL
	if perMinute > 0 {
		interval := time.Duration(float64(time.Minute) / perMinute)
		lim = rate.Every(interval)
		// 桶必须已经回满才能丢弃，否则相当于重置了额度
		if refill := interval * time.Duration(burst); refill > idle {
			idle = refill
		}
	}
	return &Limiter{
		entries: make(map[string]*limiterEntry),
		every:   lim,
		burst:   burst,
		idle:    idle,
		now:     time.Now,
	}
}

func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPrune) >= l.idle {
		l.prune(now)
	}
	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(l.every, l.burst)}
		l.entries[key] = e
	}
	e.seen = now
	return e.lim.AllowN(now, 1)
}

// prune 调用方持有 mu
func (l *Limiter) prune(now time.Time) {
	for k, e := range l.entries {
		if now.Sub(e.seen) >= l.idle {
			delete(l.entries, k)
		}
	}
	l.lastPrune = now
}

// Len 当前保留的令牌桶数量
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// RateLimitInterceptor 已登录按 telegram id 限流，否则按 IP
func RateLimitInterceptor(l *Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if id, ok := TelegramID(c); ok {
			key = strconv.FormatInt(id, 10)
		}
		if !l.Allow(key) {
			makeFaileRes(c, codes.CODE_ERR_RATE_LIMIT, "too many requests")
			return
		}
		c.Next()
	}
}
