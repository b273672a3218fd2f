package security

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// 前端只需要 JWT 头和常规内容协商头，按需收紧
var (
	corsAllowHeaders = strings.Join([]string{
		"Authorization",
		"Content-Type",
		"Accept",
		"Origin",
		"X-Requested-With",
	}, ", ")
	corsAllowMethods = strings.Join([]string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodDelete,
		http.MethodOptions,
	}, ", ")
)

// CORS 按配置白名单放行跨域请求，白名单外的 Origin 不回显
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := allowed[origin]; ok {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Secure 补充基础安全响应头
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

// visitorTable 按客户端IP维护限流器，空闲条目到期回收
type visitorTable struct {
	mu       sync.Mutex
	entries  map[string]*visitorEntry
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	sweepGap time.Duration
}

type visitorEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newVisitorTable(maxRequests int, window time.Duration) *visitorTable {
	idle := 3 * window
	if idle < time.Minute {
		idle = time.Minute
	}
	return &visitorTable{
		entries:  make(map[string]*visitorEntry),
		limit:    rate.Every(window / time.Duration(maxRequests)),
		burst:    maxRequests,
		idleTTL:  idle,
		sweepGap: time.Minute,
	}
}

func (t *visitorTable) allow(ip string) bool {
	t.mu.Lock()
	e, ok := t.entries[ip]
	if !ok {
		e = &visitorEntry{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.entries[ip] = e
	}
	e.lastSeen = time.Now()
	t.mu.Unlock()

	return e.limiter.Allow()
}

func (t *visitorTable) sweep() {
	ticker := time.NewTicker(t.sweepGap)
	defer ticker.Stop()
	for range ticker.C {
		t.mu.Lock()
		for ip, e := range t.entries {
			if time.Since(e.lastSeen) > t.idleTTL {
				delete(t.entries, ip)
			}
		}
		t.mu.Unlock()
	}
}

// RateLimiter 按IP限流，窗口内最多 maxRequests 次请求
func RateLimiter(maxRequests int, window time.Duration) gin.HandlerFunc {
	table := newVisitorTable(maxRequests, window)
	go table.sweep()

	return func(c *gin.Context) {
		if !table.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁"})
			return
		}
		c.Next()
	}
}
