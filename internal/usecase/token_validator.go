package usecase

import (
	"context"

	"food-rescue-api/internal/pkg/lineauth"
)

// TokenValidator provides token validation for middleware
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (string, error)
}

type tokenValidatorImpl struct {
	verifier lineauth.Verifier
}

func NewTokenValidator(verifier lineauth.Verifier) TokenValidator {
	return &tokenValidatorImpl{
		verifier: verifier,
	}
}

// ValidateToken returns the LINE subject id carried by tokenString.
func (t *tokenValidatorImpl) ValidateToken(ctx context.Context, tokenString string) (string, error) {
	return t.verifier.Verify(ctx, tokenString)
}
