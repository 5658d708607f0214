package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/polkiloo/foodcourt/internal/adapter/attempts"
	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/domain/repository"
	pkgAuth "github.com/polkiloo/foodcourt/internal/pkg/auth"
)

// AuthUseCase handles registration, the three login flows and session tokens.
type AuthUseCase struct {
	store    repository.Store
	hasher   pkgAuth.PasswordHasher
	tokens   pkgAuth.Strategy
	verifier credentialVerifier
	logger   *slog.Logger
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(store repository.Store, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy, limiter attempts.Limiter, logger *slog.Logger) *AuthUseCase {
	return &AuthUseCase{
		store:    store,
		hasher:   hasher,
		tokens:   strategy,
		verifier: credentialVerifier{hasher: hasher, limiter: limiter},
		logger:   logger,
	}
}

// Register creates a customer account with zero balance and returns it.
func (u *AuthUseCase) Register(ctx context.Context, username, pin string) (*model.Account, error) {
	username = strings.TrimSpace(username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidatePIN(pin); err != nil {
		return nil, err
	}

	hash, err := u.hasher.Hash(ctx, pin)
	if err != nil {
		return nil, err
	}

	acc, err := u.store.Accounts().Create(ctx, username, hash)
	if err != nil {
		return nil, err
	}
	u.logger.InfoContext(ctx, "account registered", slog.String("username", acc.Username), slog.String("uid", acc.UID))
	return acc, nil
}

// Login authenticates a customer. Blocked accounts are refused before the PIN is checked.
func (u *AuthUseCase) Login(ctx context.Context, username, pin string) (*model.Account, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || pin == "" {
		return nil, "", domainErrors.Validationf("username and pin are required")
	}

	acc, err := u.store.Accounts().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if acc.Blocked {
		return nil, "", domainErrors.ErrForbidden
	}
	if err := u.verifier.verify(ctx, attempts.Key("user", acc.Username), acc.PINHash, pin); err != nil {
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(model.UserSession{Username: acc.Username, UID: acc.UID})
	if err != nil {
		return nil, "", err
	}
	return acc, token, nil
}

// StallLogin authenticates the owner of a stall.
func (u *AuthUseCase) StallLogin(ctx context.Context, stallID, pin string) (*model.Stall, string, error) {
	stallID = strings.TrimSpace(stallID)
	if stallID == "" || pin == "" {
		return nil, "", domainErrors.Validationf("stall_id and pin are required")
	}

	stall, err := u.store.Stalls().GetByID(ctx, stallID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := u.verifier.verify(ctx, attempts.Key("stall", stall.StallID), stall.PINHash, pin); err != nil {
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(model.StallOwnerSession{StallID: stall.StallID, StallName: stall.Name})
	if err != nil {
		return nil, "", err
	}
	return stall, token, nil
}

// AdminLogin authenticates an operator.
func (u *AuthUseCase) AdminLogin(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", domainErrors.Validationf("username and password are required")
	}

	admin, err := u.store.Admins().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return "", domainErrors.ErrInvalidCredentials
		}
		return "", err
	}
	if err := u.verifier.verify(ctx, attempts.Key("admin", admin.Username), admin.PasswordHash, password); err != nil {
		return "", err
	}
	return u.tokens.IssueToken(model.AdminSession{Username: admin.Username})
}

// ParseSession validates token and returns its session.
func (u *AuthUseCase) ParseSession(token string) (model.Session, error) {
	if token == "" {
		return nil, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// SessionTTL reports how long issued tokens stay valid.
func (u *AuthUseCase) SessionTTL() time.Duration {
	return u.tokens.TTL()
}
