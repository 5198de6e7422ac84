//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"food-rescue-api/internal/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// LineTokenHelper signs HS256 ID tokens the way a LINE channel would.
type LineTokenHelper struct {
	cfg config.IdentityConfig
}

func NewLineTokenHelper(cfg config.IdentityConfig) *LineTokenHelper {
	return &LineTokenHelper{cfg: cfg}
}

func (h *LineTokenHelper) GenerateToken(t *testing.T, subject string) string {
	t.Helper()
	return h.sign(t, 0, subject, time.Now().Add(time.Hour))
}

// GenerateTokenForChannel signs with the channel at index i of the config.
func (h *LineTokenHelper) GenerateTokenForChannel(t *testing.T, i int, subject string) string {
	t.Helper()
	return h.sign(t, i, subject, time.Now().Add(time.Hour))
}

func (h *LineTokenHelper) CreateExpiredToken(t *testing.T, subject string) string {
	t.Helper()
	return h.sign(t, 0, subject, time.Now().Add(-time.Minute))
}

func (h *LineTokenHelper) sign(t *testing.T, i int, subject string, exp time.Time) string {
	t.Helper()
	require.Less(t, i, len(h.cfg.ChannelIDs))
	require.Less(t, i, len(h.cfg.ChannelSecrets))

	claims := jwt.RegisteredClaims{
		Issuer:    h.cfg.Issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{h.cfg.ChannelIDs[i]},
		IssuedAt:  jwt.NewNumericDate(exp.Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.ChannelSecrets[i]))
	require.NoError(t, err)
	return token
}
