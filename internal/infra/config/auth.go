package config

import "time"

// AuthConfig represents the authentication configuration.
type AuthConfig struct {
	// Mode selects the token verifier: "remote" delegates every request to
	// the identity provider, "local" verifies RS256 signatures in process.
	Mode     string         `mapstructure:"mode" validate:"required,oneof=remote local"`
	Provider ProviderConfig `mapstructure:"provider" validate:"required_if=Mode remote"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	// ClientsFile points at the YAML service-account store used by the
	// token issuance endpoint.
	ClientsFile string `mapstructure:"clients_file"`
}

// ProviderConfig describes the external identity provider.
type ProviderConfig struct {
	URL     string        `mapstructure:"url" validate:"omitempty,url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// JWTConfig configures local token minting and verification.
type JWTConfig struct {
	PrivateKeyFile string        `mapstructure:"private_key_file"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
}
