package auth

import (
	"context"
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/adpulse/gateway/internal/domain"
	pkgerrors "github.com/adpulse/gateway/pkg/errors"
)

// TokenManager mints and validates RS256 JWTs for service accounts.
type TokenManager struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	tokenStore TokenStore
}

// NewTokenManager creates a new TokenManager from a PEM-encoded RSA private key.
func NewTokenManager(privateKeyPEM []byte, tokenStore TokenStore) (*TokenManager, error) {
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA private key: %w", err)
	}

	return &TokenManager{
		privateKey: privateKey,
		publicKey:  &privateKey.PublicKey,
		tokenStore: tokenStore,
	}, nil
}

// GenerateToken mints a new RS256 token for the given subject and roles.
func (tm *TokenManager) GenerateToken(userID string, roles []string, expiration time.Duration) (string, error) {
	expirationTime := time.Now().Add(expiration)
	claims := &Claims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(tm.privateKey)
}

// ValidateToken verifies an RS256 token's signature and expiry and checks
// the revocation list.
func (tm *TokenManager) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.publicKey, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	if tm.tokenStore != nil && tm.tokenStore.IsRevoked(ctx, claims.ID) {
		return nil, fmt.Errorf("token has been revoked")
	}

	return claims, nil
}

// Revoke adds a token to the revocation list for its remaining validity.
func (tm *TokenManager) Revoke(ctx context.Context, tokenString string) error {
	// ParseUnverified is enough here: revocation only needs the token ID
	// and expiry, not a valid signature.
	token, _, err := new(jwt.Parser).ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return fmt.Errorf("failed to parse token for revocation: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return fmt.Errorf("invalid claims type in token")
	}

	if claims.ExpiresAt == nil {
		return fmt.Errorf("cannot revoke token with no expiration")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	tm.tokenStore.Revoke(ctx, claims.ID, ttl)
	return nil
}

// JWTVerifier adapts a TokenManager to the domain.TokenVerifier interface,
// letting deployments that share the signing key skip the per-request
// provider round trip.
type JWTVerifier struct {
	manager *TokenManager
}

// NewJWTVerifier creates a local verifier backed by the token manager.
func NewJWTVerifier(manager *TokenManager) *JWTVerifier {
	return &JWTVerifier{manager: manager}
}

// Verify validates the token locally and maps all failures to an
// authentication error.
func (v *JWTVerifier) Verify(ctx context.Context, token string) (*domain.Principal, error) {
	claims, err := v.manager.ValidateToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrAuthentication, err)
	}

	return &domain.Principal{
		ID:    claims.UserID,
		Roles: claims.Roles,
	}, nil
}
