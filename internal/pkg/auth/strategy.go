package auth

import (
	"errors"
	"time"

	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// ErrInvalidToken is returned for every malformed, forged or expired session token.
var ErrInvalidToken = errors.New("invalid auth token")

// Strategy issues and validates role-tagged session tokens.
type Strategy interface {
	IssueToken(session model.Session) (string, error)
	ParseToken(token string) (model.Session, error)
	TTL() time.Duration
	Name() string
}

type Options struct {
	TTL time.Duration
	Now func() time.Time
}
