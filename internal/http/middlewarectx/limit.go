package middlewarectx

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/partner-portal/internal/http/response"
)

// PartnerLimiter ограничивает частоту запросов отдельно для каждого партнёра.
// Запросы без данных пользователя делят лимитер по адресу клиента.
type PartnerLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewPartnerLimiter(perSecond float64, burst int) *PartnerLimiter {
	return &PartnerLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (l *PartnerLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
	}
	return lim
}

// Middleware отклоняет запрос с 429, если партнёр превысил лимит.
func (l *PartnerLimiter) Middleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "addr:" + r.RemoteAddr
			if id, ok := IdentityFrom(r.Context()); ok {
				key = "user:" + strconv.FormatInt(id.UserID, 10)
				if id.PartnerID != 0 {
					key = "partner:" + strconv.FormatInt(id.PartnerID, 10)
				}
			}
			if !l.get(key).Allow() {
				log.Warn("too many requests", slog.String("key", key))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
