package filestore

import "github.com/koustreak/pgmeta/internal/errs"

// Provider names an object storage backend.
type Provider string

const (
	ProviderMinIO Provider = "minio"
)

// Config is what a provider needs to reach its bucket.
type Config struct {
	Provider  Provider
	Endpoint  string // host:port, e.g. "localhost:9000"
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string // empty for MinIO
	Bucket    string // receives published snapshots
}

// DefaultConfig returns a plain-HTTP MinIO config writing to the "pgmeta" bucket.
func DefaultConfig(endpoint, accessKey, secretKey string) *Config {
	return &Config{
		Provider:  ProviderMinIO,
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		Bucket:    "pgmeta",
	}
}

// Validate checks the fields every provider needs.
func (c *Config) Validate() error {
	if c.Provider != ProviderMinIO {
		return errs.Newf(errs.ErrKindInvalidInput, "unsupported storage provider %q", c.Provider)
	}
	if c.Endpoint == "" {
		return errs.New(errs.ErrKindInvalidInput, "storage endpoint is required")
	}
	if c.Bucket == "" {
		return errs.New(errs.ErrKindInvalidInput, "storage bucket is required")
	}
	return nil
}
