package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/adpulse/gateway/internal/domain"
	pkgerrors "github.com/adpulse/gateway/pkg/errors"
)

const defaultVerifyTimeout = 5 * time.Second

// RemoteVerifier validates bearer tokens by calling the identity
// provider's user-info endpoint. Verification failures are never retried;
// the caller needs a fresh token, not a replay.
type RemoteVerifier struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
}

// NewRemoteVerifier creates a verifier against the given provider base URL.
// A zero timeout falls back to the default.
func NewRemoteVerifier(baseURL, apiKey string, timeout time.Duration) *RemoteVerifier {
	if timeout <= 0 {
		timeout = defaultVerifyTimeout
	}
	return &RemoteVerifier{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}
}

// userInfoResponse mirrors the provider's user payload. Role tags live in
// the app metadata block.
type userInfoResponse struct {
	ID          string `json:"id"`
	AppMetadata struct {
		Roles []string `json:"roles"`
	} `json:"app_metadata"`
}

// Verify calls the identity provider and maps any failure, timeout
// included, to an authentication error. Fail closed, never open.
func (v *RemoteVerifier) Verify(ctx context.Context, token string) (*domain.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building provider request: %v", pkgerrors.ErrAuthentication, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if v.apiKey != "" {
		req.Header.Set("apikey", v.apiKey)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: provider unreachable: %v", pkgerrors.ErrAuthentication, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned status %d", pkgerrors.ErrAuthentication, resp.StatusCode)
	}

	var user userInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: decoding provider response: %v", pkgerrors.ErrAuthentication, err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("%w: provider response missing user id", pkgerrors.ErrAuthentication)
	}

	return &domain.Principal{
		ID:    user.ID,
		Roles: user.AppMetadata.Roles,
	}, nil
}
