package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/idei-labs/usim/pkg/clientstate"
)

type ctxKey int

const (
	ctxKeyBag ctxKey = iota
	ctxKeySession
	ctxKeyRequestID
)

// StorageHeader carries the opaque client-state blob on requests.
const StorageHeader = "X-Usim-Storage"

// SessionCookie identifies the client for per-session snapshot keying.
const SessionCookie = "usim_client_id"

// BagFrom returns the decrypted client-state bag for a request; an empty bag
// when the client sent none.
func BagFrom(ctx context.Context) clientstate.Bag {
	if bag, ok := ctx.Value(ctxKeyBag).(clientstate.Bag); ok {
		return bag
	}
	return clientstate.Bag{}
}

// SessionFrom returns the session id minted by the session middleware.
func SessionFrom(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKeySession).(string); ok {
		return s
	}
	return ""
}

// WithClientState decrypts the storage header into the request context. An
// unreadable blob is treated as no state, not as an error: a client with a
// stale or tampered token just starts over. When the bag carries a login
// token, it is surfaced as a bearer header for downstream auth.
func WithClientState(codec *clientstate.Codec, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bag, err := codec.Decode(r.Header.Get(StorageHeader))
			if err != nil {
				logger.Warn("discarding unreadable client state", "error", err)
				bag = clientstate.Bag{}
			}

			if token := bag.String("store_token", ""); token != "" && r.Header.Get("Authorization") == "" {
				r.Header.Set("Authorization", "Bearer "+token)
			}

			ctx := context.WithValue(r.Context(), ctxKeyBag, bag)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSession ensures every client has a stable session id cookie; snapshots
// are cached under it, so two browsers never share UI state.
func WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var session string
		if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
			session = cookie.Value
		} else {
			session = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    session,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), ctxKeySession, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GlobalRateLimiter throttles requests per client IP. Idle entries age out
// after three minutes so the map stays bounded.
type GlobalRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewGlobalRateLimiter creates a limiter allowing rps sustained requests per
// second per IP with the given burst, and starts its eviction loop.
func NewGlobalRateLimiter(rps, burst int) *GlobalRateLimiter {
	rl := &GlobalRateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
	go rl.evictIdle()
	return rl
}

func (rl *GlobalRateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *GlobalRateLimiter) evictIdle() {
	ticker := time.NewTicker(time.Minute)
	for range ticker.C {
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware rejects requests over the per-IP budget with a 429 problem.
func (rl *GlobalRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = strings.TrimSuffix(strings.TrimPrefix(r.RemoteAddr, "["), "]")
		}

		if !rl.limiterFor(ip).Allow() {
			WriteTooManyRequests(w, 5)
			return
		}
		next.ServeHTTP(w, r)
	})
}
