package echomw

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long an IP's limiter is kept after its last request.
const idleLimiterTTL = time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client IP.
type IPRateLimiter struct {
	mutex     sync.Mutex
	clients   map[string]*clientLimiter
	rateLimit rate.Limit
	burst     int
	now       func() time.Time
}

func NewIPRateLimiter(requestsPerSecond int, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		clients:   make(map[string]*clientLimiter),
		rateLimit: rate.Limit(requestsPerSecond),
		burst:     burst,
		now:       time.Now,
	}
}

var defaultLimiter = NewIPRateLimiter(DefaultValueConfig().MiddlewareRateLimit, DefaultValueConfig().MiddlewareBurst)

// UpdateRateLimits changes the limits used by RateLimiterMiddleware and drops existing buckets.
func UpdateRateLimits(rateLimitInput, burstInput int) {
	defaultLimiter.Update(rateLimitInput, burstInput)
}

func (l *IPRateLimiter) Update(requestsPerSecond int, burst int) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.rateLimit = rate.Limit(requestsPerSecond)
	l.burst = burst
	l.clients = make(map[string]*clientLimiter)
}

// Allow reports whether ip may make a request now. Idle buckets are swept on the way.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	now := l.now()
	for clientIP, client := range l.clients {
		if now.Sub(client.lastSeen) > idleLimiterTTL {
			delete(l.clients, clientIP)
		}
	}

	client, exists := l.clients[ip]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(l.rateLimit, l.burst)}
		l.clients[ip] = client
	}
	client.lastSeen = now

	return client.limiter.AllowN(now, 1)
}

// Middleware rejects clients over their budget with 429.
func (l *IPRateLimiter) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !l.Allow(c.RealIP()) {
			return c.String(http.StatusTooManyRequests, "Too many requests")
		}
		return next(c)
	}
}

// RateLimiterMiddleware limits requests per client IP using the configured limits.
func RateLimiterMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return defaultLimiter.Middleware(next)
}
