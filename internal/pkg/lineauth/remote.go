package lineauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RemoteVerifier asks the LINE verify endpoint to validate the token.
type RemoteVerifier struct {
	client   *http.Client
	endpoint string
	channels []Channel
}

type verifyResponse struct {
	Issuer   string `json:"iss"`
	Subject  string `json:"sub"`
	Audience string `json:"aud"`
	Expiry   int64  `json:"exp"`

	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func NewRemoteVerifier(client *http.Client, endpoint string, channels []Channel) *RemoteVerifier {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &RemoteVerifier{
		client:   client,
		endpoint: endpoint,
		channels: channels,
	}
}

func (v *RemoteVerifier) Verify(ctx context.Context, tokenString string) (string, error) {
	if len(v.channels) == 0 {
		return "", ErrNoChannels
	}
	if tokenString == "" {
		return "", ErrInvalidToken
	}

	failures := make([]error, 0, len(v.channels))
	for _, ch := range v.channels {
		sub, err := v.verifyWith(ctx, ch, tokenString)
		if err == nil {
			return sub, nil
		}
		failures = append(failures, err)
	}
	return "", pickError(failures)
}

func (v *RemoteVerifier) verifyWith(ctx context.Context, ch Channel, tokenString string) (string, error) {
	form := url.Values{}
	form.Set("id_token", tokenString)
	form.Set("client_id", ch.ID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("channel %s: %w: %v", ch.ID, ErrVerifierFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("channel %s: %w: %v", ch.ID, ErrVerifierFailure, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("channel %s: %w: status %d", ch.ID, ErrVerifierFailure, resp.StatusCode)
	}

	var out verifyResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("channel %s: decode verify response: %w", ch.ID, ErrInvalidToken)
	}

	if resp.StatusCode != http.StatusOK {
		if strings.Contains(strings.ToLower(out.ErrorDescription), "expired") {
			return "", fmt.Errorf("channel %s: %w", ch.ID, ErrExpiredToken)
		}
		return "", fmt.Errorf("channel %s: %w: %s", ch.ID, ErrInvalidToken, out.ErrorDescription)
	}

	if out.Subject == "" || (out.Audience != "" && out.Audience != ch.ID) {
		return "", fmt.Errorf("channel %s: %w", ch.ID, ErrInvalidToken)
	}
	return out.Subject, nil
}
