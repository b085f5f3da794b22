package config

// ServerConfig represents the HTTP server configuration.
type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"required,gte=1024,lte=65535"`
	TLS  TLS        `mapstructure:"tls"`
	Mode string     `mapstructure:"mode" validate:"required,oneof=development production"`
	CORS CORSConfig `mapstructure:"cors"`
}

// TLS represents the TLS configuration.
type TLS struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// CORSConfig holds the origin allow-list echoed on every response.
// A single "*" entry allows any origin.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"required,min=1,dive,origin"`
}
