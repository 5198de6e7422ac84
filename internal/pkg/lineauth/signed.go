package lineauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// SignedTokenVerifier checks HS256 ID tokens locally with each channel secret.
type SignedTokenVerifier struct {
	channels []Channel
	issuer   string
	now      func() time.Time
}

func NewSignedTokenVerifier(channels []Channel, issuer string, now func() time.Time) *SignedTokenVerifier {
	if now == nil {
		now = time.Now
	}
	return &SignedTokenVerifier{
		channels: channels,
		issuer:   issuer,
		now:      now,
	}
}

func (v *SignedTokenVerifier) Verify(_ context.Context, tokenString string) (string, error) {
	if len(v.channels) == 0 {
		return "", ErrNoChannels
	}
	if tokenString == "" {
		return "", ErrInvalidToken
	}

	failures := make([]error, 0, len(v.channels))
	for _, ch := range v.channels {
		sub, err := v.verifyWith(ch, tokenString)
		if err == nil {
			return sub, nil
		}
		failures = append(failures, err)
	}
	return "", pickError(failures)
}

func (v *SignedTokenVerifier) verifyWith(ch Channel, tokenString string) (string, error) {
	if ch.Secret == "" {
		return "", fmt.Errorf("channel %s: %w", ch.ID, ErrInvalidToken)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(ch.ID),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(ch.Secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("channel %s: %w", ch.ID, ErrExpiredToken)
		}
		return "", fmt.Errorf("channel %s: %w", ch.ID, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("channel %s: %w", ch.ID, ErrInvalidToken)
	}
	return claims.Subject, nil
}
