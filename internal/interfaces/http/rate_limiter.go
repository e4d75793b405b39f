package http

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"golang.org/x/time/rate"
)

// CompanyRateLimiter limita peticiones por empresa para que una sola no sature el servicio.
// Requests sin company_id (setup, sesión) no se limitan.
type CompanyRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int
	entryTTL time.Duration
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewCompanyRateLimiter crea el limitador. rps <= 0 deshabilita el límite.
func NewCompanyRateLimiter(rps float64, burst int) *CompanyRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &CompanyRateLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     limit,
		burst:    burst,
		entryTTL: 10 * time.Minute,
		now:      time.Now,
	}
}

func (rl *CompanyRateLimiter) limiter(companyID string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	e, ok := rl.limiters[companyID]
	if !ok {
		rl.sweep(now)
		e = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[companyID] = e
	}
	e.lastSeen = now
	return e.limiter
}

// sweep elimina los limitadores sin uso; se llama al crear uno nuevo, con mu tomado.
func (rl *CompanyRateLimiter) sweep(now time.Time) {
	cutoff := now.Add(-rl.entryTTL)
	for id, e := range rl.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(rl.limiters, id)
		}
	}
}

// Middleware aplica el límite. Debe usarse DESPUÉS de AuthMiddleware.
func (rl *CompanyRateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := GetCompanyID(c)
		if companyID == "" {
			return c.Next()
		}
		l := rl.limiter(companyID)
		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.burst))
		if !l.Allow() {
			c.Set("X-RateLimit-Remaining", "0")
			c.Set("Retry-After", "1")
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "demasiadas peticiones, intente de nuevo en un momento",
			})
		}
		c.Set("X-RateLimit-Remaining", strconv.Itoa(int(l.Tokens())))
		return c.Next()
	}
}
