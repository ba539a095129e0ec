package restserver

import (
	"context"
	"io"
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chrissnell/sensorlog/internal/log"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type contextKey string

const requestIDContextKey contextKey = "request-id"

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

// withMiddleware wraps h, outermost first: panic recovery, request ID,
// access log, rate limit.
func (c *Controller) withMiddleware(h http.Handler) http.Handler {
	if c.limiter != nil {
		h = c.rateLimitMiddleware(h)
	}
	h = handlers.CustomLoggingHandler(io.Discard, h, writeAccessLog)
	h = requestIDMiddleware(h)
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{c.logger}),
		handlers.PrintRecoveryStack(true),
	)(h)
}

// requestIDMiddleware assigns every request an ID, reusing one sent by the client
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), requestIDContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

// writeAccessLog is a gorilla/handlers LogFormatter that sends the access log
// line through the application logger instead of the writer.
func writeAccessLog(_ io.Writer, p handlers.LogFormatterParams) {
	log.LogHTTPRequest(log.HTTPLogEntry{
		RequestID:  p.Request.Header.Get(RequestIDHeader),
		Method:     p.Request.Method,
		Path:       p.URL.Path,
		Query:      p.URL.RawQuery,
		Status:     p.StatusCode,
		Duration:   time.Since(p.TimeStamp),
		Size:       p.Size,
		RemoteAddr: p.Request.RemoteAddr,
		UserAgent:  p.Request.UserAgent(),
	})
}

type recoveryLogger struct {
	logger *zap.SugaredLogger
}

func (l recoveryLogger) Println(args ...interface{}) {
	l.logger.Error(args...)
}

// rateLimitMiddleware rejects clients that exceed their token bucket
func (c *Controller) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := c.limiter.clientKey(r)
		reservation := c.limiter.get(key).Reserve()
		delay := reservation.Delay()
		if !reservation.OK() || delay > 0 {
			reservation.Cancel()

			retry := int(math.Ceil(delay.Seconds()))
			if retry < 1 {
				retry = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			c.handlers.writeErrorBody(w, r, http.StatusTooManyRequests, errCodeRateLimited, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey identifies the caller by its socket peer. X-Forwarded-For is
// consulted only when that peer is a trusted proxy; the key is then the
// nearest hop, walking right to left, that is not itself trusted.
func (l *clientLimiter) clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !l.trusted(host) {
		return host
	}

	xff := r.Header.Get("X-Forwarded-For")
	if xff == "" {
		return host
	}
	hops := strings.Split(xff, ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !l.trusted(hop) {
			return hop
		}
		host = hop
	}
	// Every hop is a trusted proxy
	return host
}

func (l *clientLimiter) trusted(host string) bool {
	if len(l.trustedProxies) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range l.trustedProxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// clientLimiter keeps one token bucket per client
type clientLimiter struct {
	mu             sync.Mutex
	limit          rate.Limit
	burst          int
	trustedProxies []netip.Prefix
	clients        map[string]*clientEntry
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(rps float64, burst int, trustedProxies []netip.Prefix) *clientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		limit:          rate.Limit(rps),
		burst:          burst,
		trustedProxies: trustedProxies,
		clients:        make(map[string]*clientEntry),
	}
}

func (l *clientLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.clients[key]
	if !ok {
		e = &clientEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = e
	}
	e.lastSeen = time.Now()
	return e.limiter
}

// prune drops clients not seen since cutoff
func (l *clientLimiter) prune(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, e := range l.clients {
		if e.lastSeen.Before(cutoff) {
			delete(l.clients, key)
		}
	}
}

// janitor prunes idle clients every interval until ctx is done
func (l *clientLimiter) janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.prune(now.Add(-3 * interval))
		}
	}
}
