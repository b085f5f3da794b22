package domain

import "context"

// TokenVerifier validates a raw bearer token against the identity provider.
// Implementations must fail closed: any provider error, timeouts included,
// is an authentication failure.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

// Client represents a registered service account and its role grants.
type Client struct {
	ID           string   `yaml:"id"`
	HashedAPIKey string   `yaml:"hashed_api_key"`
	Roles        []string `yaml:"roles"`
}

// ClientStore defines the interface for retrieving service-account
// credentials. This abstraction allows a future migration to a database.
type ClientStore interface {
	FindClientByID(ctx context.Context, clientID string) (*Client, error)
}
