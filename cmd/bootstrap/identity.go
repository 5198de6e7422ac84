package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"

	"food-rescue-api/internal/pkg/config"
	"food-rescue-api/internal/pkg/lineauth"

	"go.uber.org/fx"
)

var IdentityModule = fx.Module("identity",
	fx.Provide(
		NewIdentityVerifier,
	),
)

func NewIdentityVerifier(cfg config.Config) (lineauth.Verifier, error) {
	id := cfg.Identity
	channels := lineauth.NewChannels(id.ChannelIDs, id.ChannelSecrets)
	if len(channels) == 0 {
		return nil, lineauth.ErrNoChannels
	}

	switch id.Mode {
	case config.IdentityModeSigned:
		slog.Info("identity verifier initialized", "mode", id.Mode, "channels", len(channels))
		return lineauth.NewSignedTokenVerifier(channels, id.Issuer, nil), nil
	case config.IdentityModeRemote:
		slog.Info("identity verifier initialized", "mode", id.Mode, "channels", len(channels), "endpoint", id.VerifyURL)
		client := &http.Client{Timeout: id.VerifyTimeout}
		return lineauth.NewRemoteVerifier(client, id.VerifyURL, channels), nil
	default:
		return nil, fmt.Errorf("unknown IDENTITY_MODE %q", id.Mode)
	}
}
