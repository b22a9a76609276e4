// Package config loads pgmeta settings from an optional YAML file with
// environment variable overrides. Secrets (DSN, storage secret key) are read
// from the environment only.
package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/koustreak/pgmeta/internal/catalog"
	"github.com/koustreak/pgmeta/internal/database"
	"github.com/koustreak/pgmeta/internal/errs"
	"github.com/koustreak/pgmeta/internal/filestore"
	"github.com/koustreak/pgmeta/internal/logger"
	"github.com/koustreak/pgmeta/internal/schema"
	"github.com/koustreak/pgmeta/internal/snapshot"
)

// Config is the root of the pgmeta configuration.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Introspect IntrospectConfig `yaml:"introspect"`
	Log        LogConfig        `yaml:"log"`
	HTTP       HTTPConfig       `yaml:"http"`
	Export     ExportConfig     `yaml:"export"`
}

// DatabaseConfig selects the catalog database and tunes its pool.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver" env:"PGMETA_DB_DRIVER" env-default:"postgres"`
	DSN             string        `yaml:"-" env:"PGMETA_DSN"` // Secret - not in YAML
	MaxConns        int32         `yaml:"max_conns" env:"PGMETA_DB_MAX_CONNS" env-default:"4"`
	MinConns        int32         `yaml:"min_conns" env:"PGMETA_DB_MIN_CONNS" env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"PGMETA_DB_MAX_CONN_LIFETIME" env-default:"30m"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"PGMETA_DB_MAX_CONN_IDLE_TIME" env-default:"5m"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout" env:"PGMETA_DB_CONNECT_TIMEOUT" env-default:"10s"`
	QueryTimeout    time.Duration `yaml:"query_timeout" env:"PGMETA_DB_QUERY_TIMEOUT" env-default:"30s"`
}

// IntrospectConfig controls what gets fetched and how it is assembled.
type IntrospectConfig struct {
	Schemas []string `yaml:"schemas" env:"PGMETA_SCHEMAS" env-default:"public"`
	Orphans string   `yaml:"orphans" env:"PGMETA_ORPHANS" env-default:"drop"`

	// SkipRelations turns relation inference off. It is a negative flag
	// because env-default also fills a YAML "false".
	SkipRelations bool `yaml:"skip_relations" env:"PGMETA_SKIP_RELATIONS"`
}

// LogConfig mirrors logger.Config.
type LogConfig struct {
	Level  string `yaml:"level" env:"PGMETA_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"PGMETA_LOG_FORMAT" env-default:"json"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr            string        `yaml:"addr" env:"PGMETA_HTTP_ADDR" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"PGMETA_HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"PGMETA_HTTP_WRITE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"PGMETA_HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

// ExportConfig configures snapshot publishing to object storage.
// Publishing is off while Endpoint is empty.
type ExportConfig struct {
	Endpoint  string `yaml:"endpoint" env:"PGMETA_S3_ENDPOINT" env-default:""`
	AccessKey string `yaml:"access_key" env:"PGMETA_S3_ACCESS_KEY" env-default:""`
	SecretKey string `yaml:"-" env:"PGMETA_S3_SECRET_KEY"` // Secret - not in YAML
	UseSSL    bool   `yaml:"use_ssl" env:"PGMETA_S3_USE_SSL" env-default:"false"`
	Region    string `yaml:"region" env:"PGMETA_S3_REGION" env-default:""`
	Bucket    string `yaml:"bucket" env:"PGMETA_S3_BUCKET" env-default:"pgmeta"`
	Prefix    string `yaml:"prefix" env:"PGMETA_S3_PREFIX" env-default:"snapshots"`
	Format    string `yaml:"format" env:"PGMETA_EXPORT_FORMAT" env-default:"json"`
}

// Load reads configuration from path, then applies environment overrides.
// An empty path reads the environment only. A missing file is an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	if path == "" {
		err = cleanenv.ReadEnv(cfg)
	} else {
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "config file not readable", statErr)
		}
		err = cleanenv.ReadConfig(path, cfg)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to load config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that do not depend on a live connection.
// The DSN is checked later, when a command actually opens the database.
func (c *Config) Validate() error {
	switch database.Driver(c.Database.Driver) {
	case database.DriverPostgres, database.DriverMySQL:
	default:
		return errs.Newf(errs.ErrKindInvalidInput, "unsupported driver %q", c.Database.Driver)
	}
	if _, err := catalog.ParseOrphanPolicy(c.Introspect.Orphans); err != nil {
		return err
	}
	if _, err := snapshot.ParseFormat(c.Export.Format); err != nil {
		return err
	}
	if c.Database.MinConns > c.Database.MaxConns && c.Database.MaxConns > 0 {
		return errs.Newf(errs.ErrKindInvalidInput, "min_conns (%d) exceeds max_conns (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}
	return nil
}

// DatabaseConfig converts to the driver config.
func (c *Config) DatabaseConfig() *database.Config {
	return &database.Config{
		Driver:          database.Driver(c.Database.Driver),
		DSN:             c.Database.DSN,
		MaxConns:        c.Database.MaxConns,
		MinConns:        c.Database.MinConns,
		MaxConnLifetime: c.Database.MaxConnLifetime,
		MaxConnIdleTime: c.Database.MaxConnIdleTime,
		ConnectTimeout:  c.Database.ConnectTimeout,
		QueryTimeout:    c.Database.QueryTimeout,
	}
}

// IntrospectOptions converts to schema.Options. Validate must have passed.
func (c *Config) IntrospectOptions() schema.Options {
	orphans, _ := catalog.ParseOrphanPolicy(c.Introspect.Orphans)
	return schema.Options{
		Orphans:        orphans,
		InferRelations: !c.Introspect.SkipRelations,
		Timeout:        c.Database.QueryTimeout,
	}
}

// LoggerConfig converts to logger.Config writing to stderr.
func (c *Config) LoggerConfig() *logger.Config {
	lc := logger.DefaultConfig()
	lc.Level = c.Log.Level
	lc.Format = c.Log.Format
	return lc
}

// PublishEnabled reports whether an object store is configured.
func (c *Config) PublishEnabled() bool {
	return c.Export.Endpoint != ""
}

// StoreConfig converts to the object storage config.
func (c *Config) StoreConfig() *filestore.Config {
	return &filestore.Config{
		Provider:  filestore.ProviderMinIO,
		Endpoint:  c.Export.Endpoint,
		AccessKey: c.Export.AccessKey,
		SecretKey: c.Export.SecretKey,
		UseSSL:    c.Export.UseSSL,
		Region:    c.Export.Region,
		Bucket:    c.Export.Bucket,
	}
}

// PublishOptions converts to snapshot.PublishOptions. Validate must have passed.
func (c *Config) PublishOptions() snapshot.PublishOptions {
	format, _ := snapshot.ParseFormat(c.Export.Format)
	return snapshot.PublishOptions{
		Bucket: c.Export.Bucket,
		Prefix: c.Export.Prefix,
		Format: format,
	}
}
