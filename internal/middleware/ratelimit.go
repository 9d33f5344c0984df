package middleware

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/time/rate"
)

var ErrRateLimited = errors.New("too many requests, slow down")

// PeerLimiter hands out one token bucket per client address.
type PeerLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	peers   map[string]*peer
	lastGC  time.Time
	nowFunc func() time.Time
}

type peer struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewPeerLimiter allows perSecond requests per peer with the given burst.
// Idle peers are forgotten after ten minutes.
func NewPeerLimiter(perSecond float64, burst int) *PeerLimiter {
	return &PeerLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		ttl:     10 * time.Minute,
		peers:   make(map[string]*peer),
		nowFunc: time.Now,
	}
}

// Allow reports whether key may make a request now.
func (l *PeerLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	if now.Sub(l.lastGC) > l.ttl {
		for k, p := range l.peers {
			if now.Sub(p.lastSeen) > l.ttl {
				delete(l.peers, k)
			}
		}
		l.lastGC = now
	}

	p, ok := l.peers[key]
	if !ok {
		p = &peer{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.peers[key] = p
	}
	p.lastSeen = now
	return p.limiter.AllowN(now, 1)
}

func peerKey(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// RateLimitInterceptor rejects calls with ResourceExhausted once the peer's
// bucket is empty.
func RateLimitInterceptor(l *PeerLimiter) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if !l.Allow(peerKey(req.Peer().Addr)) {
				return nil, connect.NewError(connect.CodeResourceExhausted, ErrRateLimited)
			}
			return next(ctx, req)
		}
	}
}
