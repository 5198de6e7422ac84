// Package lineauth turns a LINE ID token into the stable subject id of the user.
//
// Several LINE channels (the LIFF app and the mini app) may issue tokens for the
// same service, so every verifier tries each configured channel in order and the
// first channel that accepts the token wins.
package lineauth

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("token expired")
	ErrNoChannels      = errors.New("no LINE channel configured")
	ErrVerifierFailure = errors.New("identity verifier unavailable")
)

// Verifier returns the subject identifier carried by a valid token.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

type Channel struct {
	ID     string
	Secret string
}

func NewChannels(ids, secrets []string) []Channel {
	channels := make([]Channel, 0, len(ids))
	for i, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		ch := Channel{ID: id}
		if i < len(secrets) {
			ch.Secret = strings.TrimSpace(secrets[i])
		}
		channels = append(channels, ch)
	}
	return channels
}

// pickError reports the most useful failure after every channel rejected a token.
// An unreachable verifier beats an expired token, which beats a plain invalid one.
func pickError(errs []error) error {
	for _, target := range []error{ErrVerifierFailure, ErrExpiredToken} {
		for _, err := range errs {
			if errors.Is(err, target) {
				return err
			}
		}
	}
	return ErrInvalidToken
}
