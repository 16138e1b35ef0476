package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

// StateTTL is how long an issued correlation token stays valid.
const StateTTL = 5 * time.Minute

// sweepInterval is how often expired tokens are purged.
const sweepInterval = 5 * time.Minute

// StateStore issues and redeems single-use OAuth state tokens.
type StateStore struct {
	mu      sync.Mutex
	pending map[string]time.Time
	ttl     time.Duration
	now     func() time.Time
}

// NewStateStore creates an empty store.
func NewStateStore() *StateStore {
	return &StateStore{
		pending: make(map[string]time.Time),
		ttl:     StateTTL,
		now:     time.Now,
	}
}

// Issue generates and remembers a fresh token.
func (s *StateStore) Issue() (string, error) {
	state, err := generateRandomState()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[state] = s.now()
	return state, nil
}

// Validate redeems state. The token is forgotten on lookup whatever the
// outcome, so a second call with the same value always fails.
func (s *StateStore) Validate(state string) bool {
	if state == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	issued, ok := s.pending[state]
	if !ok {
		return false
	}
	delete(s.pending, state)
	return s.now().Sub(issued) <= s.ttl
}

// Sweep drops expired tokens.
func (s *StateStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for state, issued := range s.pending {
		if now.Sub(issued) > s.ttl {
			delete(s.pending, state)
			removed++
		}
	}
	return removed
}

// Len returns the number of outstanding tokens.
func (s *StateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Run sweeps periodically until ctx is done.
func (s *StateStore) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// generateRandomState generates a random state string for OAuth security
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
