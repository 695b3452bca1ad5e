// Package security provides admin login throttling and password hashing.
package security

import (
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrTooManyAttempts is returned once a key has exhausted its attempt budget
// inside the current window.
var ErrTooManyAttempts = errors.New("too many failed attempts, try again later")

// AttemptStore is a sliding-window failed-attempt limiter keyed by an opaque
// string (typically the client IP). It is safe for concurrent use and holds
// its state internally so it can be shared across handlers.
type AttemptStore struct {
	mu          sync.Mutex
	attempts    map[string][]time.Time
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

// NewAttemptStore builds a limiter allowing maxAttempts failures per key
// within the window. Non-positive arguments fall back to 5 attempts per
// 5 minutes.
func NewAttemptStore(maxAttempts int, window time.Duration) *AttemptStore {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 5 * time.Minute
	}
	return &AttemptStore{
		attempts:    make(map[string][]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

// prune drops expired entries for key and returns the remaining ones.
// Caller holds mu.
func (s *AttemptStore) prune(key string, now time.Time) []time.Time {
	cutoff := now.Add(-s.window)
	kept := s.attempts[key][:0]
	for _, t := range s.attempts[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(s.attempts, key)
		return nil
	}
	s.attempts[key] = kept
	return kept
}

// Allowed reports whether key still has attempts left in the window.
func (s *AttemptStore) Allowed(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prune(key, s.now())) < s.maxAttempts
}

// RecordFailure logs one failed attempt for key.
func (s *AttemptStore) RecordFailure(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.prune(key, now)
	s.attempts[key] = append(s.attempts[key], now)
}

// Reset clears all attempts for key, used after a successful login.
func (s *AttemptStore) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, key)
}

// Remaining returns how many attempts key has left in the window.
func (s *AttemptStore) Remaining(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	left := s.maxAttempts - len(s.prune(key, s.now()))
	if left < 0 {
		return 0
	}
	return left
}

// HashPassword returns a bcrypt hash of the password at the default cost.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Authenticator checks the admin credential behind the attempt limiter.
type Authenticator struct {
	adminHash string
	attempts  *AttemptStore
}

// NewAuthenticator wires the stored admin hash to an attempt store.
func NewAuthenticator(adminHash string, attempts *AttemptStore) *Authenticator {
	return &Authenticator{adminHash: adminHash, attempts: attempts}
}

// Login verifies the admin password for the given client key. Failed
// attempts count against the key's window; a success clears it.
func (a *Authenticator) Login(key, password string) error {
	if !a.attempts.Allowed(key) {
		return ErrTooManyAttempts
	}
	if a.adminHash == "" || !VerifyPassword(a.adminHash, password) {
		a.attempts.RecordFailure(key)
		return errors.New("invalid credentials")
	}
	a.attempts.Reset(key)
	return nil
}
