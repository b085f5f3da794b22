package wiring

import (
	"crypto/tls"
	"fmt"

	"github.com/adpulse/gateway/internal/infra/config"
)

// ConfigureTLS creates a tls.Config from the server TLS configuration.
// Returns nil when TLS is disabled.
func ConfigureTLS(cfg config.TLS) (*tls.Config, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	serverCert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load server TLS key pair: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{serverCert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
