package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/polkiloo/foodcourt/internal/domain/model"
)

const defaultTTL = 12 * time.Hour

type sessionClaims struct {
	Role      model.Role `json:"role"`
	UID       string     `json:"uid,omitempty"`
	StallName string     `json:"stall_name,omitempty"`
	jwt.RegisteredClaims
}

// JWTStrategy signs sessions as HS256 JSON web tokens.
type JWTStrategy struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTStrategy builds JWTStrategy with provided secret and options.
func NewJWTStrategy(secret string, opts Options) *JWTStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &JWTStrategy{secret: []byte(secret), ttl: ttl, now: now}
}

// IssueToken signs a token for the session.
func (s *JWTStrategy) IssueToken(session model.Session) (string, error) {
	if session == nil {
		return "", fmt.Errorf("issue token: nil session")
	}

	now := s.now()
	claims := sessionClaims{
		Role: session.Role(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.Subject(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	switch v := session.(type) {
	case model.UserSession:
		claims.UID = v.UID
	case model.StallOwnerSession:
		claims.StallName = v.StallName
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates the token and restores the session it carries.
func (s *JWTStrategy) ParseToken(token string) (model.Session, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	switch claims.Role {
	case model.RoleUser:
		return model.UserSession{Username: claims.Subject, UID: claims.UID}, nil
	case model.RoleStallOwner:
		return model.StallOwnerSession{StallID: claims.Subject, StallName: claims.StallName}, nil
	case model.RoleAdmin:
		return model.AdminSession{Username: claims.Subject}, nil
	default:
		return nil, ErrInvalidToken
	}
}

// TTL returns how long issued tokens stay valid.
func (s *JWTStrategy) TTL() time.Duration {
	return s.ttl
}

func (s *JWTStrategy) Name() string {
	return "jwt-hs256"
}
