package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/adpulse/gateway/internal/domain"
	"github.com/adpulse/gateway/internal/infra/auth"
	pkgerrors "github.com/adpulse/gateway/pkg/errors"
)

// AuthenticationResult holds the outcome of a client-credentials exchange.
type AuthenticationResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// AuthService defines the interface for the token issuance business logic.
type AuthService interface {
	Authenticate(ctx context.Context, clientID, clientSecret string) (*AuthenticationResult, error)
}

type authService struct {
	clientStore  domain.ClientStore
	tokenManager *auth.TokenManager
	tokenTTL     time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(clientStore domain.ClientStore, tokenManager *auth.TokenManager, tokenTTL time.Duration) AuthService {
	return &authService{
		clientStore:  clientStore,
		tokenManager: tokenManager,
		tokenTTL:     tokenTTL,
	}
}

// Authenticate verifies client credentials and issues a JWT upon success.
func (s *authService) Authenticate(ctx context.Context, clientID, clientSecret string) (*AuthenticationResult, error) {
	client, err := s.clientStore.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown client", pkgerrors.ErrAuthentication)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(client.HashedAPIKey), []byte(clientSecret)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", pkgerrors.ErrAuthentication)
	}

	accessToken, err := s.tokenManager.GenerateToken(client.ID, client.Roles, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthenticationResult{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
	}, nil
}
