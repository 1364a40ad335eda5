// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Counter decides whether one more request for key fits in the current
// window. Both the in-memory Limiter and RedisLimiter satisfy it.
type Counter interface {
	Allow(ctx context.Context, key string) bool
	Reset(ctx context.Context, key string)
}

// Limiter counts hits per key in fixed windows held in process memory.
// It is safe for concurrent use. Stop ends its sweeper goroutine.
type Limiter struct {
	limit    int
	duration time.Duration

	mu      sync.Mutex
	windows map[string]window

	stop     chan struct{}
	stopOnce sync.Once
}

type window struct {
	hits  int
	reset time.Time
}

// New returns a Limiter allowing limit hits per key every duration.
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		limit:    limit,
		duration: duration,
		windows:  map[string]window{},
		stop:     make(chan struct{}),
	}
	go l.sweep(2 * duration)
	return l
}

// current returns key's window as of now, opening a fresh one when the
// previous has ended. Callers hold l.mu.
func (l *Limiter) current(key string, now time.Time) window {
	w, ok := l.windows[key]
	if !ok || !now.Before(w.reset) {
		return window{reset: now.Add(l.duration)}
	}
	return w
}

func (l *Limiter) Allow(_ context.Context, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.current(key, time.Now())
	if w.hits >= l.limit {
		return false
	}
	w.hits++
	l.windows[key] = w
	return true
}

// Remaining reports how many hits key has left in its current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return max(0, l.limit-l.current(key, time.Now()).hits)
}

func (l *Limiter) Reset(_ context.Context, key string) {
	l.mu.Lock()
	delete(l.windows, key)
	l.mu.Unlock()
}

// Stop is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// sweep drops ended windows so idle keys do not accumulate.
func (l *Limiter) sweep(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-l.stop:
			return
		case now := <-t.C:
			l.mu.Lock()
			for key, w := range l.windows {
				if !now.Before(w.reset) {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// ClientIP returns the RemoteAddr host. Forwarded headers count only when
// chi's RealIP middleware has already rewritten RemoteAddr, which the
// server installs when trust_proxy is set.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// LoginLimiter applies a per-IP and a per-account limit to sign-in
// attempts. The account limit holds when attempts come from many addresses.
type LoginLimiter struct {
	ip    Counter
	email Counter
}

// NewLoginLimiter combines a per-IP and a per-email counter.
func NewLoginLimiter(ip, email Counter) *LoginLimiter {
	return &LoginLimiter{ip: ip, email: email}
}

// Check reports whether a sign-in attempt may proceed, with a message for
// the caller when it may not.
func (ll *LoginLimiter) Check(ctx context.Context, r *http.Request, email string) (bool, string) {
	if !ll.ip.Allow(ctx, "ip:"+ClientIP(r)) {
		return false, "Too many login attempts. Please wait a minute before trying again."
	}

	if key := emailKey(email); key != "" {
		if !ll.email.Allow(ctx, key) {
			return false, "Too many login attempts for this account. Please wait a few minutes."
		}
	}

	return true, ""
}

// ResetEmail forgets failed attempts for email after a successful sign-in.
func (ll *LoginLimiter) ResetEmail(ctx context.Context, email string) {
	if key := emailKey(email); key != "" {
		ll.email.Reset(ctx, key)
	}
}

func emailKey(email string) string {
	e := strings.ToLower(strings.TrimSpace(email))
	if e == "" {
		return ""
	}
	return "email:" + e
}
