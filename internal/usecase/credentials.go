package usecase

import (
	"context"
	"errors"

	"github.com/polkiloo/foodcourt/internal/adapter/attempts"
	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	pkgAuth "github.com/polkiloo/foodcourt/internal/pkg/auth"
)

// credentialVerifier compares secrets against stored hashes under the attempt limiter.
type credentialVerifier struct {
	hasher  pkgAuth.PasswordHasher
	limiter attempts.Limiter
}

func (v credentialVerifier) verify(ctx context.Context, key, hash, secret string) error {
	if err := v.limiter.Allow(ctx, key); err != nil {
		return err
	}
	if err := v.hasher.Compare(ctx, hash, secret); err != nil {
		if errors.Is(err, pkgAuth.ErrMismatch) {
			v.limiter.Failed(ctx, key)
			return domainErrors.ErrInvalidCredentials
		}
		return err
	}
	v.limiter.Succeeded(ctx, key)
	return nil
}
