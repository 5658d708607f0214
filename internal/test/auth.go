package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/model"
	pkgAuth "github.com/polkiloo/foodcourt/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied secret.
func (h HasherStub) Hash(ctx context.Context, secret string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(secret)
	}
	return "hash:" + secret, nil
}

// Compare validates secret against stored hash.
func (h HasherStub) Compare(ctx context.Context, hash string, secret string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, secret)
	}
	if hash != "hash:"+secret {
		return pkgAuth.ErrMismatch
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(model.Session) (string, error)
	ParseFn func(string) (model.Session, error)
	TTLVal  time.Duration
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(session model.Session) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(session)
	}
	return string(session.Role()) + ":" + session.Subject(), nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (model.Session, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return model.UserSession{Username: "alice", UID: "UID_0001"}, nil
}

// TTL returns configured lifetime or one hour.
func (s StrategyStub) TTL() time.Duration {
	if s.TTLVal > 0 {
		return s.TTLVal
	}
	return time.Hour
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string { return "stub" }

// LimiterStub counts failures per key and blocks once Max is reached.
type LimiterStub struct {
	Max int

	mu       sync.Mutex
	failures map[string]int
}

// Allow implements attempts.Limiter.
func (l *LimiterStub) Allow(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Max > 0 && l.failures[key] >= l.Max {
		return domainErrors.ErrTooManyAttempts
	}
	return nil
}

// Failed implements attempts.Limiter.
func (l *LimiterStub) Failed(ctx context.Context, key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failures == nil {
		l.failures = make(map[string]int)
	}
	l.failures[key]++
}

// Succeeded implements attempts.Limiter.
func (l *LimiterStub) Succeeded(ctx context.Context, key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, key)
}

// Failures returns the recorded failure count for key.
func (l *LimiterStub) Failures(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failures[key]
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
