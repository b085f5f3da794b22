package config

// AWSConfig configures the report exporter's object storage target.
type AWSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Region   string `mapstructure:"region" validate:"required_if=Enabled true"`
	S3Bucket string `mapstructure:"s3_bucket" validate:"required_if=Enabled true"`
}
