// Package session implements the per-session duplicate-submission guard.
// A token is minted when a form is rendered and consumed by the first
// successful write; a replay of the same token is refused. The guard is
// process-local and best-effort: it does not deduplicate across sessions,
// and the gap between Check and Consume leaves concurrent tabs sharing a
// token able to race.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUnknownToken means the token was never minted here (or was swept).
	ErrUnknownToken = errors.New("unknown or expired session token")
	// ErrDuplicate means a submission with this token was already accepted.
	ErrDuplicate = errors.New("this submission was already received")
)

// DefaultTTL is how long an unconsumed token stays valid.
const DefaultTTL = 12 * time.Hour

type entry struct {
	minted time.Time
	used   bool
}

// Guard tracks minted session tokens and which of them already produced a
// row.
type Guard struct {
	mu     sync.Mutex
	tokens map[string]*entry
	ttl    time.Duration
	now    func() time.Time
}

// NewGuard creates a guard with the given token TTL (DefaultTTL when <= 0).
func NewGuard(ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Guard{
		tokens: make(map[string]*entry),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Mint registers and returns a fresh opaque token. Stale unconsumed
// tokens are swept opportunistically.
func (g *Guard) Mint() string {
	token := uuid.NewString()

	g.mu.Lock()
	defer g.mu.Unlock()
	g.sweepLocked()
	g.tokens[token] = &entry{minted: g.now()}
	return token
}

// Check refuses tokens that were never minted or were already consumed.
func (g *Guard) Check(token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.tokens[token]
	if !ok {
		return ErrUnknownToken
	}
	if e.used {
		return ErrDuplicate
	}
	return nil
}

// Consume marks the token as having produced a row. Call only after the
// insert succeeded, so a failed write leaves the token reusable.
func (g *Guard) Consume(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if e, ok := g.tokens[token]; ok {
		e.used = true
	}
}

func (g *Guard) sweepLocked() {
	cutoff := g.now().Add(-g.ttl)
	for token, e := range g.tokens {
		if e.minted.Before(cutoff) {
			delete(g.tokens, token)
		}
	}
}
