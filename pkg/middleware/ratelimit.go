package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"glam-commerce/pkg/utils"

	"golang.org/x/time/rate"
)

// RateLimit applies a per-IP token bucket. Entries idle longer than ttl are
// evicted to keep the map bounded.
func RateLimit(rps rate.Limit, burst int) func(http.Handler) http.Handler {
	type visitor struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	const ttl = 10 * time.Minute

	var (
		mu       sync.Mutex
		visitors = make(map[string]*visitor)
	)

	cleanup := func(now time.Time) {
		for ip, v := range visitors {
			if now.Sub(v.lastSeen) > ttl {
				delete(visitors, ip)
			}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			mu.Lock()
			v, ok := visitors[ip]
			if !ok {
				v = &visitor{limiter: rate.NewLimiter(rps, burst)}
				visitors[ip] = v
			}
			now := time.Now()
			v.lastSeen = now
			if len(visitors) > 10000 {
				cleanup(now)
			}
			allowed := v.limiter.Allow()
			mu.Unlock()

			if !allowed {
				utils.ResponseJSON(w, http.StatusTooManyRequests, false, "Too many requests", nil, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
